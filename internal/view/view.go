// Package view renders the web UI from embedded html/template files. Every
// page is parsed together with the shared layout and executed through it.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/flash"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Renderer.Instance.
const (
	PageLogin      = "login"
	PageRegister   = "register"
	PageDashboard  = "dashboard"
	PageBooks      = "books"
	PageBookDelete = "book_delete"
	PageUpload     = "upload"
	PageError      = "error"
)

var pageNames = []string{
	PageLogin, PageRegister, PageDashboard, PageBooks, PageBookDelete, PageUpload, PageError,
}

// Page is the data every template receives. Body carries the page's own data.
type Page struct {
	Title  string
	User   *domain.User
	Toasts []flash.Toast
	Body   any
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "N/A"
		}
		return t.Format("Jan 2, 2006")
	},
	"day": func(s string) string {
		t, err := time.Parse("2006-01-02", domain.Book{PublishDate: s}.PublishDay())
		if err != nil {
			return s
		}
		return t.Format("Jan 2, 2006")
	},
}

// Renderer implements gin's render.HTMLRender.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(files, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Instance renders page name; unknown names render the error page.
func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages[PageError]
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}
