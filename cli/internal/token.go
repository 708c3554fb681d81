package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/devilmonastery/openproof/internal/client"
)

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show which API key is in use",
		Long: `Show where the active API key comes from and a short preview of it.

The key is never printed in full. When the key is a JWT its subject and
expiry are shown as well; the signature is not verified.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokenStatus(getCliContext(cmd), time.Now())
		},
	}
}

func runTokenStatus(cc *CliContext, now time.Time) error {
	token, err := cc.Tokens.Load()
	if err != nil {
		return err
	}

	fmt.Fprintf(cc.Out, "Source: %s\n", tokenSource(cc.Tokens))
	fmt.Fprintf(cc.Out, "Key:    %s\n", client.TokenPreview(token, 8))

	claims, ok := parseTokenClaims(token)
	if !ok {
		return nil
	}
	if sub, _ := claims.GetSubject(); sub != "" {
		fmt.Fprintf(cc.Out, "Agent:  %s\n", sub)
	}
	if iat, _ := claims.GetIssuedAt(); iat != nil {
		fmt.Fprintf(cc.Out, "Issued: %s (%s ago)\n", iat.Format(time.RFC3339), formatDuration(now.Sub(iat.Time)))
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		if exp.Before(now) {
			fmt.Fprintf(cc.Out, "Expired: %s (%s ago)\n", exp.Format(time.RFC3339), formatDuration(now.Sub(exp.Time)))
		} else {
			fmt.Fprintf(cc.Out, "Expires: %s (in %s)\n", exp.Format(time.RFC3339), formatDuration(exp.Sub(now)))
		}
	}
	return nil
}

// parseTokenClaims decodes the claims of a JWT-shaped token without
// verifying it. Opaque keys report false.
func parseTokenClaims(token string) (jwt.MapClaims, bool) {
	if strings.Count(token, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// formatDuration formats a duration in a human-friendly way (e.g., "2 days, 3 hours and 45 minutes")
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	parts = appendUnit(parts, days, "day")
	parts = appendUnit(parts, hours, "hour")
	parts = appendUnit(parts, minutes, "minute")
	if len(parts) == 0 {
		parts = appendUnit(parts, seconds, "second")
	}

	switch len(parts) {
	case 0:
		return "0 seconds"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func appendUnit(parts []string, n int, unit string) []string {
	switch {
	case n == 1:
		return append(parts, "1 "+unit)
	case n > 1:
		return append(parts, fmt.Sprintf("%d %ss", n, unit))
	default:
		return parts
	}
}
