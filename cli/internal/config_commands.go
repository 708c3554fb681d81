package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration and contexts",
		Long:  `Manage CLI configuration including registry contexts, similar to kubectl contexts.`,
	}

	// Add subcommands
	cmd.AddCommand(newCurrentContextCommand())
	cmd.AddCommand(newUseContextCommand())
	cmd.AddCommand(newListContextsCommand())
	cmd.AddCommand(newAddContextCommand())
	cmd.AddCommand(newDeleteContextCommand())
	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// current-context command
func newCurrentContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "current-context",
		Short: "Display the current context",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			fmt.Fprintln(cc.Out, cc.Config.CurrentContext)
			return nil
		},
	}
}

// use-context command
func newUseContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use-context CONTEXT_NAME",
		Short: "Switch to a different context",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			contextName := args[0]

			if err := cc.Config.SetCurrentContext(contextName); err != nil {
				return err
			}

			if err := SaveConfig(cc.Config, cc.ConfigPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cc.Out, "Switched to context %q\n", contextName)
			return nil
		},
	}
}

// list-contexts command
func newListContextsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list-contexts",
		Aliases: []string{"get-contexts"},
		Short:   "List all available contexts",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			config := cc.Config

			if len(config.Contexts) == 0 {
				fmt.Fprintln(cc.Out, "No contexts configured")
				return nil
			}

			// Sort context names for consistent output
			names := make([]string, 0, len(config.Contexts))
			for name := range config.Contexts {
				names = append(names, name)
			}
			sort.Strings(names)

			// Use tabwriter for aligned output
			w := tabwriter.NewWriter(cc.Out, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "CURRENT\tNAME\tSERVER\tTHEME")

			for _, name := range names {
				ctx := config.Contexts[name]
				current := " "
				if name == config.CurrentContext {
					current = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					current,
					name,
					ctx.BaseURL(),
					ctx.Theme(),
				)
			}
			return w.Flush()
		},
	}
}

// add-context command
func newAddContextCommand() *cobra.Command {
	var (
		serverURL string
		webURL    string
		timeout   time.Duration
		theme     string
	)

	cmd := &cobra.Command{
		Use:   "add-context CONTEXT_NAME",
		Short: "Add or update a context",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			contextName := args[0]

			// Create new context
			ctx := &Context{}
			ctx.Server.URL = serverURL
			ctx.Server.WebURL = webURL
			ctx.Server.Timeout = timeout.String()
			ctx.Rendering.Theme = theme

			// Add or update the context
			cc.Config.AddContext(contextName, ctx)

			// If this is the first context, make it current
			if len(cc.Config.Contexts) == 1 {
				cc.Config.CurrentContext = contextName
			}

			if err := SaveConfig(cc.Config, cc.ConfigPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cc.Out, "Context %q added/updated\n", contextName)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "url", "", "Registry URL")
	cmd.Flags().StringVar(&webURL, "web-url", "", "Base URL for document links (defaults to --url)")
	cmd.Flags().DurationVar(&timeout, "request-timeout", 30*time.Second, "Per-request timeout")
	cmd.Flags().StringVar(&theme, "theme", "auto", "Rendering theme")
	cmd.MarkFlagRequired("url")

	return cmd
}

// delete-context command
func newDeleteContextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-context CONTEXT_NAME",
		Short: "Delete a context",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			contextName := args[0]

			if err := cc.Config.DeleteContext(contextName); err != nil {
				return err
			}

			if err := SaveConfig(cc.Config, cc.ConfigPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			fmt.Fprintf(cc.Out, "Context %q deleted\n", contextName)
			return nil
		},
	}
}

// show command - shows the active context and where its values come from
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current context configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCliContext(cmd)
			if err := cc.resolveRegistry(cmd); err != nil {
				return err
			}
			ctx := cc.Context

			requestTimeout, err := ctx.RequestTimeout()
			if err != nil {
				return err
			}

			fmt.Fprintf(cc.Out, "Current context: %s\n", cc.ContextName)
			fmt.Fprintf(cc.Out, "  Server URL: %s\n", ctx.BaseURL())
			fmt.Fprintf(cc.Out, "  Web URL: %s\n", ctx.WebURL())
			fmt.Fprintf(cc.Out, "  Timeout: %s\n", requestTimeout)
			fmt.Fprintf(cc.Out, "  Glamour Theme: %s\n", ctx.Theme())
			fmt.Fprintf(cc.Out, "  Effective Server: %s\n", cc.Client.BaseURL())
			fmt.Fprintf(cc.Out, "  Config File: %s\n", cc.ConfigPath)
			fmt.Fprintf(cc.Out, "  Token: %s\n", tokenSource(cc.Tokens))

			return nil
		},
	}
}
