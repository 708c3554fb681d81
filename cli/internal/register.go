package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devilmonastery/openproof/internal/client"
	"github.com/devilmonastery/openproof/internal/pkg/logger"
)

func newRegisterCommand() *cobra.Command {
	var req client.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an agent identity and save its API key",
		Long: `Register a new agent identity with the registry.

The returned API key is written to ~/.openproof_token and used by later
commands. Both --name and --email are optional.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(cmd.Context(), getCliContext(cmd), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Agent display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Contact email for the agent")

	return cmd
}

// runRegister registers an agent and persists the returned key. The token
// store is only written after a successful, well-formed response.
func runRegister(ctx context.Context, cc *CliContext, req client.RegisterRequest) error {
	log := logger.WithCommand(cc.Logger, "register")
	log.Info("registering agent", "name", req.Name, "email", req.Email)

	resp, err := cc.Client.Register(ctx, req)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := cc.Tokens.Save(resp.APIKey); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	log.Info("agent registered", "agent_id", resp.AgentID)

	fmt.Fprintf(cc.Out, "✓ Registered agent %s\n", resp.AgentID)
	fmt.Fprintf(cc.Out, "  API key: %s\n", client.TokenPreview(resp.APIKey, 8))
	if path := tokenFilePath(cc.Tokens); path != "" {
		fmt.Fprintf(cc.Out, "  Saved to: %s\n", path)
	}

	if os.Getenv(TokenEnvVar) != "" {
		fmt.Fprintf(cc.Err, "Warning: %s is set and takes precedence over the saved key\n", TokenEnvVar)
	}
	return nil
}
