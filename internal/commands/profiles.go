package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bankimport/internal/profile"
)

func newProfilesCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available import profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			profiles, err := a.Profiles.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing profiles: %w", err)
			}

			printProfiles(cmd.OutOrStdout(), profiles)

			return nil
		},
	}
}

func printProfiles(w io.Writer, profiles []*profile.Profile) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No import profiles configured.")
		return
	}

	t := table.New().Headers("ID", "NAME", "FORMAT", "AMOUNTS", "LOCALE", "STATUS")

	for _, p := range profiles {
		status := "ok"
		if err := p.Validate(); err != nil {
			status = "incomplete"
		}

		t.Row(p.ID.String(), p.Name, string(p.FileFormat()), string(p.Mode()), p.NumberFormat, status)
	}

	fmt.Fprintln(w, t.Render())
}
