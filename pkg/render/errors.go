package render

import "errors"

var (
	// ErrFontLoad is fatal: nothing can be drawn without a font
	ErrFontLoad = errors.New("font load failed")
	ErrEncode   = errors.New("image encode failed")
	ErrWrite    = errors.New("image write failed")
)
