package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"ourjourney/internal/errors"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes a structured JSON error with the status carried by
// the error itself. Unknown errors become 500s.
func renderError(w http.ResponseWriter, err error) {
	var jErr *errors.JournalError
	if !stderrors.As(err, &jErr) {
		jErr = errors.NewInternal(err)
	}

	renderJSON(w, jErr.Status, map[string]any{
		"error": map[string]any{
			"code":    string(jErr.Code),
			"message": jErr.Message,
			"status":  jErr.Status,
		},
	})
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTMLEscapeString(md)
	}
	return buf.String()
}
