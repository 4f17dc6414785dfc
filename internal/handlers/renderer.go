package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"github.com/gin-gonic/gin/render"
	"github.com/shopspring/decimal"
)

// HTMLRenderer, her sayfa için ayrı template setlerini yönetir.
type HTMLRenderer struct {
	Templates map[string]*template.Template
}

// Instance, render işlemini gerçekleştirir.
func (r *HTMLRenderer) Instance(name string, data interface{}) render.Render {
	return render.HTML{
		Template: r.Templates[name],
		Data:     data,
	}
}

// TemplateFuncs are available in every page template.
var TemplateFuncs = template.FuncMap{
	"price": func(d decimal.Decimal) string {
		return "£" + d.StringFixed(2)
	},
}

// LoadTemplates parses each page in dir together with dir/base.html into its own set,
// keyed by page file name.
func LoadTemplates(fsys fs.FS, dir string, funcs template.FuncMap, pages ...string) (*HTMLRenderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	base := path.Join(dir, "base.html")

	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, path.Join(dir, name), base)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &HTMLRenderer{Templates: templates}, nil
}
