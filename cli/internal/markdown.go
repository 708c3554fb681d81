package cli

import (
	"fmt"

	"github.com/devilmonastery/openproof/internal/render"
)

// printMarkdown renders and prints markdown using the configured theme.
// Output that is not a terminal gets the plain markdown.
func printMarkdown(cc *CliContext, markdown string) {
	fmt.Fprint(cc.Out, render.Terminal(markdown, getTheme(cc), cc.Out))
}

// getTheme returns the theme from the active context, or "auto" if none is
// selected
func getTheme(cc *CliContext) string {
	if cc == nil || cc.Context == nil {
		return "auto"
	}
	return cc.Context.Theme()
}
