package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/openproof/internal/pkg/logger"
)

// maxListed caps how many documents are printed per listing.
const maxListed = 10

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list [QUERY...]",
		Aliases: []string{"search"},
		Short:   "List or search published documents",
		Long: `List documents in the registry, or search them when a query is given.

Multiple words are joined into a single query. At most 10 documents are
shown, followed by the total reported by the registry.`,
		Example: `  openproof list
  openproof search zero knowledge`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListDocuments(cmd.Context(), getCliContext(cmd), strings.Join(args, " "))
		},
	}
}

func runListDocuments(ctx context.Context, cc *CliContext, query string) error {
	log := logger.WithCommand(cc.Logger, "list")
	log.Info("listing documents", "query", query)

	list, err := cc.Client.ListDocuments(ctx, query)
	if err != nil {
		return fmt.Errorf("listing documents failed: %w", err)
	}

	if !list.Recognized {
		log.Warn("unrecognized document list response")
		fmt.Fprintln(cc.Out, list.Raw)
	} else {
		for i, doc := range list.Documents {
			if i == maxListed {
				break
			}
			fmt.Fprintf(cc.Out, "[%s] %s (ID: %s)\n", doc.Type, doc.Title, doc.ID)
		}
	}

	if list.Recognized || list.HasTotal {
		fmt.Fprintf(cc.Out, "Total: %d\n", list.Total)
	}
	return nil
}
