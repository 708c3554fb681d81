package render

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Terminal renders markdown for out. When out is a terminal the markdown is
// styled with glamour using theme; otherwise (pipes, redirects, buffers) it
// is returned unchanged.
func Terminal(markdown, theme string, out io.Writer) string {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return markdown
	}
	return Styled(markdown, theme)
}

// Styled renders markdown with glamour regardless of the output device.
// Rendering failures fall back to the plain markdown.
func Styled(markdown, theme string) string {
	if theme == "" {
		theme = "auto"
	}
	rendered, err := glamour.Render(markdown, theme)
	if err != nil {
		return markdown
	}
	return rendered
}
