package utils

import (
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
)

// DisplayTimeFormat is the fixed layout used for every datetime shown on the
// page, regardless of how the database stores the timestamp.
const DisplayTimeFormat = "Jan 2, 2006 3:04:05 PM"

type TemplateRegistry struct {
	Templates *template.Template
}

func (t *TemplateRegistry) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.Templates.ExecuteTemplate(w, name, data)
}

func FormatTime(t time.Time) string {
	return t.Format(DisplayTimeFormat)
}

// IsValidDomain reports whether a candidate domain name from the request is
// safe to look up: letters, digits, hyphen and dot only, and a sane length.
func IsValidDomain(candidate string) bool {
	if candidate == "" || len(candidate) > 255 {
		return false
	}
	for _, ch := range candidate {
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') && ch != '.' && ch != '-' {
			return false
		}
	}
	return true
}
