package render

import (
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Markdown converts markdown text to safe HTML for use in templates
func Markdown(markdown string) template.HTML {
	// Convert markdown to HTML
	unsafe := blackfriday.Run([]byte(markdown))

	// Sanitize the HTML to prevent XSS
	policy := bluemonday.UGCPolicy()
	safe := policy.SanitizeBytes(unsafe)

	return template.HTML(safe)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>{{.Title}}</title>
</head>
<body>
<article>
{{.Body}}
</article>
</body>
</html>
`))

// Page writes a standalone HTML document for an article preview.
func Page(w io.Writer, title, markdown string) error {
	return pageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: title,
		Body:  Markdown(markdown),
	})
}
