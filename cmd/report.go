package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mbudget/internal/analytics"
	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/export"
	"github.com/theirongolddev/mbudget/internal/model"
	"github.com/theirongolddev/mbudget/internal/planfile"
)

var (
	flagReportFormat string
	flagReportOut    string
)

var reportCmd = &cobra.Command{
	Use:   "report <plan.toml|dir>...",
	Short: "Replay plan files and print their month summaries",
	Long: "Replays the categories, month length and daily spending in TOML plan files\n" +
		"and prints each summary as a table, or exports it as CSV or JSON.\n" +
		"Directories contribute every *.toml file they contain. With several plans,\n" +
		"--out names a directory that receives one export per plan.",
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportFormat, "format", "f", "table", "Output format: table, csv, json")
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "", "Write to file (or directory, for several plans) instead of stdout")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	table := strings.EqualFold(flagReportFormat, "table")
	var format export.Format
	if !table {
		f, err := export.ParseFormat(flagReportFormat)
		if err != nil {
			return err
		}
		format = f
	}

	paths, err := planfile.Expand(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no plan files found in %s", strings.Join(args, ", "))
	}
	batch := len(paths) > 1
	if batch && !table && flagReportOut == "" {
		return errors.New("exporting several plans needs --out <dir>")
	}

	results := planfile.ReplayAll(paths, func(current, total int) {
		log.Debug().Int("current", current).Int("total", total).Msg("replaying plans")
	})

	out := cmd.OutOrStdout()
	if flagReportOut != "" && (table || !batch) {
		f, err := os.Create(flagReportOut)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	var failed, rejected int
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error().Err(r.Err).Str("path", r.Path).Msg("plan not loaded")
			continue
		}
		for _, rej := range r.Rejected {
			log.Warn().Str("path", r.Path).Str("step", rej.Step).Err(rej.Err).Msg("plan step rejected")
		}
		rejected += len(r.Rejected)

		name := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		switch {
		case table:
			printReport(out, name, r.Session)
		case batch:
			path, err := writeReportFile(flagReportOut, name, format, r.Session)
			if err != nil {
				return err
			}
			log.Info().Str("path", path).Str("format", string(format)).Msg("report written")
		default:
			if err := export.Write(out, format, r.Session); err != nil {
				return err
			}
		}
	}

	if flagReportOut != "" && !batch {
		log.Info().Str("path", flagReportOut).Str("format", flagReportFormat).Msg("report written")
	}
	if failed > 0 {
		return fmt.Errorf("%d plan file(s) could not be read", failed)
	}
	if rejected > 0 {
		return fmt.Errorf("%d plan step(s) rejected", rejected)
	}
	return nil
}

func writeReportFile(dir, name string, format export.Format, s model.Session) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+"."+string(format))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating output: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := export.Write(f, format, s); err != nil {
		return "", err
	}
	return path, nil
}

func printReport(w io.Writer, name string, s model.Session) {
	sum := analytics.Summarize(s)
	tot := sum.Totals

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle(fmt.Sprintf("  Budget Report  |  %s  |  %d days  ",
		name, sum.TotalDays)))
	fmt.Fprintln(w)

	outcome := cli.Good(cli.Outcome(tot.Remaining))
	if tot.Remaining.IsNegative() {
		outcome = cli.Bad(cli.Outcome(tot.Remaining))
	}

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Overview",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Phase", s.Phase.String()},
			{"Total budget", cli.FormatMoney(tot.Budget)},
			{"Total spent", cli.FormatMoney(tot.Spent)},
			{"Remaining", cli.FormatMoney(tot.Remaining)},
			{"Spent of budget", cli.FormatPercent(tot.SpentPercent)},
			{"On budget", fmt.Sprintf("%d of %d categories", sum.OnBudget, sum.CategoryCount)},
		},
	}))
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(sum.Categories))
	for _, c := range sum.Categories {
		rows = append(rows, []string{
			c.Name,
			cli.FormatMoney(c.Budget),
			cli.FormatMoney(c.Spent),
			cli.FormatMoney(c.Remaining),
			cli.FormatDays(c.DaysLogged, sum.TotalDays),
			cli.RenderUsageBar(c.UsedPercent, 12),
		})
	}
	rows = append(rows, []string{"---"}, []string{
		"Total", cli.FormatMoney(tot.Budget), cli.FormatMoney(tot.Spent), cli.FormatMoney(tot.Remaining), "",
		cli.RenderUsageBar(tot.SpentPercent, 12),
	})
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"Category", "Budget", "Spent", "Left", "Logged", "Used"},
		Rows:    rows,
	}))
	fmt.Fprintln(w)

	if len(sum.TopSpending) > 0 {
		top := make([][]string, len(sum.TopSpending))
		for i, a := range sum.TopSpending {
			top[i] = []string{
				fmt.Sprintf("%d. %s › %s", i+1, a.Category, a.Subcategory),
				cli.FormatMoney(a.Amount),
				cli.FormatPercent(a.Share),
			}
		}
		fmt.Fprint(w, cli.RenderTable(cli.Table{
			Title:   "Top Spending Areas",
			Headers: []string{"Subcategory", "Amount", "Of category"},
			Rows:    top,
		}))
		fmt.Fprintln(w)
	}

	if len(sum.RedZones) > 0 {
		fmt.Fprintln(w, cli.Bad("  Red zones"))
		for _, z := range sum.RedZones {
			reason := cli.FormatPercent(z.Share) + " of " + z.Category
			if z.OverBudget {
				reason += ", category over budget"
			}
			fmt.Fprintf(w, "  ⚠ %s › %s  %s  %s\n", z.Category, z.Subcategory, cli.FormatMoney(z.Amount), cli.Muted(reason))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "  %s\n\n", outcome)
}
