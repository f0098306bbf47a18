package svgrender

import "fmt"

func errFmt(format string, args ...interface{}) error { return fmt.Errorf(format, args...) }
