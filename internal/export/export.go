// Package export renders export payloads to downloadable file formats.
package export

import (
	"github.com/bizledger/report-exporter/internal/report/types"
)

// Renderer turns a payload into the bytes of one file format.
type Renderer interface {
	Render(p *types.Payload) ([]byte, error)
	SupportedFormat() types.Format
	FileExt() string
	ContentType() string
}

// NewRenderers returns every built-in renderer keyed by format.
func NewRenderers() map[types.Format]Renderer {
	renderers := map[types.Format]Renderer{}
	for _, r := range []Renderer{NewCSVRenderer(), NewPDFRenderer(), NewXLSXRenderer()} {
		renderers[r.SupportedFormat()] = r
	}
	return renderers
}
