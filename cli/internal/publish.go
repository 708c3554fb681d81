package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/openproof/internal/pkg/frontmatter"
	"github.com/devilmonastery/openproof/internal/pkg/logger"
	"github.com/devilmonastery/openproof/internal/pkg/urlutil"
)

func newPublishCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish FILE",
		Short: "Publish a markdown article",
		Long: `Publish a markdown article to the registry.

The file should start with YAML frontmatter delimited by '---'. Content is
sent exactly as it is on disk; a warning is printed when the frontmatter
looks wrong, but the registry has the final say.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), getCliContext(cmd), args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check the article and print what would be published")

	return cmd
}

func runPublish(ctx context.Context, cc *CliContext, path string, dryRun bool) error {
	log := logger.WithCommand(cc.Logger, "publish").With("file", path)

	var token string
	if !dryRun {
		var err error
		if token, err = cc.Tokens.Load(); err != nil {
			return err
		}
	}

	content, err := readArticle(path)
	if err != nil {
		return err
	}

	doc, warnings := inspectArticle(path, content)
	for _, w := range warnings {
		log.Debug("article check", "warning", w)
		fmt.Fprintf(cc.Err, "Warning: %s\n", w)
	}

	if dryRun {
		fmt.Fprintln(cc.Out, "Dry run, nothing was published")
		fmt.Fprintf(cc.Out, "  Title: %s\n", doc.Title())
		fmt.Fprintf(cc.Out, "  Type:  %s\n", doc.Type())
		fmt.Fprintf(cc.Out, "  Slug:  %s\n", doc.Slug())
		if tags := doc.Tags(); len(tags) > 0 {
			fmt.Fprintf(cc.Out, "  Tags:  %s\n", strings.Join(tags, ", "))
		}
		fmt.Fprintf(cc.Out, "  Size:  %d bytes\n", len(content))
		return nil
	}

	log.Info("publishing article", "bytes", len(content))
	resp, err := cc.Client.Publish(ctx, token, content)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	log.Info("article published", "id", resp.ID, "slug", resp.Slug)

	fmt.Fprintln(cc.Out, "✓ Published")
	if resp.ID != "" {
		fmt.Fprintf(cc.Out, "  ID:   %s\n", resp.ID)
	}
	if resp.Slug != "" {
		fmt.Fprintf(cc.Out, "  Slug: %s\n", resp.Slug)
	}

	link, err := urlutil.BuildDocumentURL(cc.WebURL, urlutil.PreferSlug(resp.Slug, string(resp.ID)))
	if err != nil {
		log.Debug("failed to build document URL", "web_url", cc.WebURL, "error", err)
		fmt.Fprintf(cc.Err, "Warning: could not build document URL: %v\n", err)
		return nil
	}
	fmt.Fprintf(cc.Out, "  URL:  %s\n", link)
	return nil
}

// readArticle reads a local article, reporting a missing file as
// ErrFileNotFound.
func readArticle(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// inspectArticle parses what frontmatter it can and returns advisory
// warnings. It never rejects content.
func inspectArticle(path, content string) (*frontmatter.Document, []string) {
	var warnings []string

	if !frontmatter.HasYAMLDelimiter(content) {
		if f := frontmatter.Detect(content); f != frontmatter.None {
			warnings = append(warnings, fmt.Sprintf(
				"%s has %s frontmatter; the registry expects YAML frontmatter delimited by '---'",
				path, frontmatter.Describe(f)))
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"%s does not start with '---' YAML frontmatter and may be rejected", path))
		}
	}

	doc, err := frontmatter.Parse(content)
	switch {
	case err == nil:
		return doc, warnings
	case errors.Is(err, frontmatter.ErrNoFrontmatter):
	default:
		if frontmatter.HasYAMLDelimiter(content) {
			warnings = append(warnings, fmt.Sprintf("frontmatter in %s could not be parsed: %v", path, err))
		}
	}
	return &frontmatter.Document{Fields: map[string]any{}, Body: content}, warnings
}
