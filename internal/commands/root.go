package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bankimport/internal/app"
	"github.com/MrJamesThe3rd/bankimport/internal/config"
	"github.com/MrJamesThe3rd/bankimport/internal/logging"
)

// opener builds the App a command runs against.
type opener func(ctx context.Context) (*app.App, error)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(openFromEnv)
}

func newRootCommand(open opener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bankimport",
		Short: "Import bank exports into the ledger",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newImportCommand(open))
	rootCmd.AddCommand(newProfilesCommand(open))

	return rootCmd
}

func openFromEnv(ctx context.Context) (*app.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg, logging.New(os.Stderr, level))
	if err != nil {
		return nil, fmt.Errorf("starting: %w", err)
	}

	return a, nil
}
