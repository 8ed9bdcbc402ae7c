package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-assistant/internal/auth"
	"github.com/nerrad567/gray-logic-assistant/internal/infrastructure/config"
)

// newRootCmd builds the command tree. Without a subcommand the service runs.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "graylogic-assistant",
		Short:        "Expose Gray Logic devices to a smart-home voice assistant",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	root.SetVersionTemplate(`{{printf "graylogic-assistant version %s\n" .Version}}`)
	root.PersistentFlags().StringVarP(&configPath, "config", "c", getConfigPath(),
		"configuration file (GRAYLOGIC_CONFIG)")

	root.AddCommand(newTokenCmd(&configPath), newMigrateCmd(&configPath), newVersionCmd())
	return root
}

// newTokenCmd issues a bearer token signed with the configured secret.
func newTokenCmd(configPath *string) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API",
		Long: `Issue a signed bearer token for the assistant API.

Role "agent" may only call the fulfillment endpoint; "installer" may also
read and write device configuration and subscribe to events.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if ttl <= 0 {
				ttl = time.Duration(cfg.Security.JWT.TokenTTL) * time.Minute
			}
			token, err := auth.GenerateToken(subject, auth.Role(role), cfg.Security.JWT.Secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "token subject (required)")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleAgent), "token role: agent or installer")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default security.jwt.token_ttl)")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("subject")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "graylogic-assistant %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
