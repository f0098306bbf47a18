package svgrender

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benoitkugler/svgpp/svgxml"
)

func TestFollowRefDetectsDirectCycle(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg"><defs><mask id="m1"/></defs></svg>`)
	el, ok := doc.XML.FindElementByID("m1")
	require.True(t, ok)

	ref1, err := doc.Follow(el)
	require.NoError(t, err)
	defer ref1.Release()

	_, err = doc.Follow(el)
	require.Error(t, err)
	rerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CyclicReference, rerr.Kind)
	assert.True(t, rerr.Fatal)
}

func TestFollowRefReleaseAllowsReentry(t *testing.T) {
	doc := newTestDocument(t, `<svg xmlns="http://www.w3.org/2000/svg"><defs><mask id="m1"/></defs></svg>`)
	el, _ := doc.XML.FindElementByID("m1")

	ref, err := doc.Follow(el)
	require.NoError(t, err)
	ref.Release()

	_, err = doc.Follow(el)
	assert.NoError(t, err)
}

func TestReportIsWarnUnderWarnModeAndFatalUnderStrict(t *testing.T) {
	xmlDoc, err := svgxml.Parse(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	require.NoError(t, err)

	warnDoc := NewDocument(xmlDoc, Warn, discardLogger())
	assert.NoError(t, warnDoc.report(MissingReferencedElement, "use", errFmt("missing")))

	strictDoc := NewDocument(xmlDoc, Strict, discardLogger())
	err = strictDoc.report(MissingReferencedElement, "use", errFmt("missing"))
	require.Error(t, err)
	assert.True(t, err.(*Error).Fatal)
}
