// pkg/render/decoration.go

package render

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const logoWidth = 30.0

var errEmptyImage = errors.New("image has no size")

type decoration struct {
	path   string
	aspect float64 // height / width of the source image
	width  float64
	height float64
}

type decorations struct {
	background *decoration
	logo       *decoration
}

// loadDecorations registers the optional images up front so that a bad
// file is found before any page exists.
func (r *Renderer) loadDecorations(pdf *gofpdf.Fpdf, opts Options) decorations {
	var d decorations
	if img := r.register(pdf, "background", opts.BackgroundPath); img != nil {
		w, h := pdf.GetPageSize()
		img.width, img.height = w, h
		d.background = img
	}
	if img := r.register(pdf, "logo", opts.LogoPath); img != nil {
		img.width = logoWidth
		img.height = logoWidth * img.aspect
		d.logo = img
	}
	return d
}

func (r *Renderer) register(pdf *gofpdf.Fpdf, layer, path string) *decoration {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		r.logger.Warn("skipping decoration", zap.Error(&AssetError{Layer: layer, Path: path, Err: err}))
		return nil
	}

	info, err := registerImage(pdf, path)
	if err != nil {
		r.logger.Warn("skipping decoration", zap.Error(&AssetError{Layer: layer, Path: path, Err: err}))
		return nil
	}
	if pdf.Err() {
		err := pdf.Error()
		// a bad image must not poison the rest of the document
		pdf.ClearError()
		r.logger.Warn("skipping decoration", zap.Error(&AssetError{Layer: layer, Path: path, Err: err}))
		return nil
	}
	if info == nil || info.Width() <= 0 || info.Height() <= 0 {
		r.logger.Warn("skipping decoration", zap.Error(&AssetError{Layer: layer, Path: path, Err: errEmptyImage}))
		return nil
	}

	return &decoration{path: path, aspect: info.Height() / info.Width()}
}

// registerImage shields the caller from decoders that panic on malformed
// input.
func registerImage(pdf *gofpdf.Fpdf, path string) (info *gofpdf.ImageInfoType, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pdf.ClearError()
			info, err = nil, fmt.Errorf("decode: %v", rec)
		}
	}()
	return pdf.RegisterImageOptions(path, gofpdf.ImageOptions{ReadDpi: true}), nil
}
