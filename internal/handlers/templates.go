package handlers

import (
	"embed"
	"html/template"

	"github.com/kabureco/kabureco/internal/common"
)

//go:embed pages/*.html
var pagesFS embed.FS

// NewTemplates parses the embedded page templates with the display helpers the
// pages use for yen amounts and profit styling.
func NewTemplates() *template.Template {
	funcs := template.FuncMap{
		"yen":       common.FormatYen,
		"yenPtr": func(p *int64) string {
			if p == nil {
				return "-"
			}
			return common.FormatYen(*p)
		},
		"signedYen": common.FormatSignedYen,
		"pct":       common.FormatSignedPct,
		"profitClass": func(v int64) string {
			if v >= 0 {
				return "profit-plus"
			}
			return "profit-minus"
		},
	}
	return template.Must(template.New("pages").Funcs(funcs).ParseFS(pagesFS, "pages/*.html"))
}
