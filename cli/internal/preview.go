package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/openproof/internal/pkg/logger"
	"github.com/devilmonastery/openproof/internal/render"
)

func newPreviewCommand() *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Render an article locally without publishing it",
		Long: `Render a markdown article the way readers will see it.

Terminal output is styled with the context's glamour theme. With --html a
standalone, sanitized HTML page is written to stdout instead.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(getCliContext(cmd), args[0], asHTML)
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "Write an HTML page instead of terminal output")

	return cmd
}

func runPreview(cc *CliContext, path string, asHTML bool) error {
	log := logger.WithCommand(cc.Logger, "preview").With("file", path)

	content, err := readArticle(path)
	if err != nil {
		return err
	}

	doc, warnings := inspectArticle(path, content)
	for _, w := range warnings {
		log.Debug("article check", "warning", w)
		fmt.Fprintf(cc.Err, "Warning: %s\n", w)
	}

	title := doc.Title()
	if title == "" {
		title = path
	}

	if asHTML {
		if err := render.Page(cc.Out, title, doc.Body); err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		return nil
	}

	printMarkdown(cc, doc.Body)
	return nil
}
