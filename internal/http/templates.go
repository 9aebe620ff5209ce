package http

import (
	"embed"
	"html/template"

	"loginhub/internal/domain"
)

//go:embed views/*.html
var viewsFS embed.FS

// loadTemplates parses the embedded views. Every page template wraps its
// content between the shared header and footer partials.
func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(viewsFS, "views/*.html"))
}

// pageData is the single payload type handed to the view templates. Zero
// values simply render nothing.
type pageData struct {
	Title    string
	User     *domain.User
	Error    string
	Notice   string
	Username string
	Email    string
}
