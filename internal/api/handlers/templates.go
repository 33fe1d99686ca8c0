package handlers

import (
	"embed"
	"html/template"
	"strconv"

	"greendrake/realty/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"price": services.FormatPrice,
	"stars": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
}

// LoadTemplates parses the embedded page templates for gin's SetHTMLTemplate.
func LoadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}
