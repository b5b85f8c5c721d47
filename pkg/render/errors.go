// pkg/render/errors.go

package render

import "fmt"

// AssetError describes a decoration image that could not be used. It is
// never returned from Render; the layer is skipped and the error logged.
type AssetError struct {
	Layer string
	Path  string
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("%s image %q unusable: %v", e.Layer, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

// RenderFault is any failure that stops a document from being produced.
// No bytes are returned alongside it.
type RenderFault struct {
	Err error
}

func (e *RenderFault) Error() string {
	return fmt.Sprintf("render invoice: %v", e.Err)
}

func (e *RenderFault) Unwrap() error { return e.Err }
