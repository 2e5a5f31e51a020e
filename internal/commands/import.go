package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/bankimport/internal/app"
	"github.com/MrJamesThe3rd/bankimport/internal/importer"
)

type importOptions struct {
	profile           string
	file              string
	includeDuplicates bool
	commit            bool
	exclude           []int
	showErrors        bool
	showDuplicates    bool
}

func newImportCommand(open opener) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a bank export and optionally commit it to the ledger",
		Long: "Reads the file with the given profile, reports row errors and likely duplicates, " +
			"and with --commit writes the accepted rows to the ledger in one batch.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			return runImport(cmd.Context(), cmd.OutOrStdout(), a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.profile, "profile", "", "profile id or name (required)")
	_ = cmd.MarkFlagRequired("profile")
	cmd.Flags().StringVar(&opts.file, "file", "", "path to the bank export (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().BoolVar(&opts.includeDuplicates, "include-duplicates", false, "also commit rows flagged as duplicates")
	cmd.Flags().BoolVar(&opts.commit, "commit", false, "write the accepted rows to the ledger")
	cmd.Flags().IntSliceVar(&opts.exclude, "exclude", nil, "data row indexes of flagged duplicates to leave out")
	cmd.Flags().BoolVar(&opts.showErrors, "show-errors", false, "list rows that failed validation")
	cmd.Flags().BoolVar(&opts.showDuplicates, "show-duplicates", false, "list rows flagged as duplicates")

	return cmd
}

func runImport(ctx context.Context, w io.Writer, a *app.App, opts importOptions) error {
	if a.Config.Import.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.Config.Import.Timeout)
		defer cancel()
	}

	c := a.Coordinator()

	if err := selectProfile(ctx, a, c, opts.profile); err != nil {
		return err
	}

	if err := c.LoadPath(ctx, opts.file); err != nil {
		return fmt.Errorf("loading %s: %w", opts.file, err)
	}

	if err := c.Validate(ctx); err != nil {
		return err
	}

	for _, row := range opts.exclude {
		if err := c.ExcludeDuplicate(row); err != nil {
			return err
		}
	}

	printStats(w, c.Stats())

	if opts.showErrors {
		printErrors(w, c)
	}

	if opts.showDuplicates {
		printDuplicates(w, c)
	}

	if !opts.commit {
		return nil
	}

	n, err := c.Commit(ctx, opts.includeDuplicates)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "committed: %d\n", n)

	return nil
}

// selectProfile accepts an id or a profile name.
func selectProfile(ctx context.Context, a *app.App, c *importer.Coordinator, ref string) error {
	if id, err := uuid.Parse(ref); err == nil {
		return c.SelectProfile(ctx, id)
	}

	p, err := a.Profiles.Lookup(ctx, ref)
	if err != nil {
		return err
	}

	return c.UseProfile(p)
}

func printStats(w io.Writer, s importer.Stats) {
	fmt.Fprintf(w, "total: %d\nvalid: %d\nerrors: %d\nduplicates: %d\n",
		s.TotalRecords, s.ValidRecords, s.RecordsWithErrors, s.PotentialDuplicates)
}

func printErrors(w io.Writer, c *importer.Coordinator) {
	t := table.New().Headers("ROW", "LINE", "ERROR")
	n := 0

	for _, r := range c.Records() {
		if r.Valid() {
			continue
		}

		t.Row(fmt.Sprint(r.Row), fmt.Sprint(r.Line), r.Err.Error())
		n++
	}

	if n == 0 {
		return
	}

	fmt.Fprintln(w, t.Render())
}

func printDuplicates(w io.Writer, c *importer.Coordinator) {
	dups := c.Duplicates()
	if len(dups) == 0 {
		return
	}

	t := table.New().Headers("ROW", "DATE", "AMOUNT", "PAYEE", "LEDGER", "MATCHES")

	for _, d := range dups {
		t.Row(
			fmt.Sprint(d.Record.Row),
			d.Record.Date.Format("2006-01-02"),
			d.Record.Amount.StringFixed(2),
			d.Record.Payee,
			string(d.Existing[0].Type()),
			fmt.Sprint(len(d.Existing)),
		)
	}

	fmt.Fprintln(w, t.Render())
}
