package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mbudget/internal/cli"
	"github.com/theirongolddev/mbudget/internal/client"
	"github.com/theirongolddev/mbudget/internal/planner"
)

var (
	flagRemoteAddr string
	flagRemoteOut  string
)

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Drive the session of a running mbudget server",
}

var remoteShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the server's session",
	Args:  cobra.NoArgs,
	RunE:  runRemoteShow,
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <category> <budget> <sub1,sub2,...>",
	Short: "Add a category during setup",
	Args:  cobra.ExactArgs(3),
	RunE:  runRemoteAdd,
}

var remoteStartCmd = &cobra.Command{
	Use:   "start [days]",
	Short: "Start tracking the month",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRemoteStart,
}

var remoteSpendCmd = &cobra.Command{
	Use:   "spend <category> <subcategory> <amount>",
	Short: "Log the next day's spending for a category",
	Args:  cobra.ExactArgs(3),
	RunE:  runRemoteSpend,
}

var remoteResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the session and start a new month",
	Args:  cobra.NoArgs,
	RunE:  runRemoteReset,
}

var remoteExportCmd = &cobra.Command{
	Use:   "export <csv|json>",
	Short: "Download the summary report",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemoteExport,
}

func init() {
	remoteCmd.PersistentFlags().StringVar(&flagRemoteAddr, "addr", "", "server address (default from config)")
	remoteExportCmd.Flags().StringVarP(&flagRemoteOut, "out", "o", "", "write to file instead of stdout")
	remoteCmd.AddCommand(remoteShowCmd, remoteAddCmd, remoteStartCmd, remoteSpendCmd, remoteResetCmd, remoteExportCmd)
	rootCmd.AddCommand(remoteCmd)
}

func remoteClient() *client.Client {
	addr := flagRemoteAddr
	if addr == "" {
		addr = appCfg.Server.Addr
	}
	return client.New(addr)
}

func parseMoneyArg(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not an amount", raw)
	}
	return d, nil
}

func runRemoteShow(cmd *cobra.Command, _ []string) error {
	snap, err := remoteClient().Session(cmd.Context())
	if err != nil {
		return err
	}
	printSnapshot(cmd, snap)
	return nil
}

func runRemoteAdd(cmd *cobra.Command, args []string) error {
	budget, err := parseMoneyArg(args[1])
	if err != nil {
		return err
	}
	snap, err := remoteClient().AddCategory(cmd.Context(), args[0], budget, planner.ParseSubcategories(args[2]))
	if err != nil {
		return err
	}
	log.Debug().Str("category", args[0]).Msg("category added remotely")
	printSnapshot(cmd, snap)
	return nil
}

func runRemoteStart(cmd *cobra.Command, args []string) error {
	days := appCfg.General.DefaultDays
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%q is not a number of days", args[0])
		}
		days = n
	}
	snap, err := remoteClient().StartMonth(cmd.Context(), days)
	if err != nil {
		return err
	}
	printSnapshot(cmd, snap)
	return nil
}

func runRemoteSpend(cmd *cobra.Command, args []string) error {
	amount, err := parseMoneyArg(args[2])
	if err != nil {
		return err
	}
	snap, err := remoteClient().LogSpend(cmd.Context(), args[0], args[1], amount)
	if err != nil {
		return err
	}
	printSnapshot(cmd, snap)
	return nil
}

func runRemoteReset(cmd *cobra.Command, _ []string) error {
	snap, err := remoteClient().Reset(cmd.Context())
	if err != nil {
		return err
	}
	printSnapshot(cmd, snap)
	return nil
}

func runRemoteExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	data, err := remoteClient().Export(ctx, strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	if flagRemoteOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(flagRemoteOut, data, 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Saved %s\n", flagRemoteOut)
	return nil
}

func printSnapshot(cmd *cobra.Command, snap client.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  Phase: %s", snap.Phase)
	if snap.TotalDays > 0 {
		fmt.Fprintf(out, " (%d days)", snap.TotalDays)
	}
	fmt.Fprintf(out, "\n  Budget: %s  Spent: %s  Remaining: %s\n\n",
		moneyOf(snap.Budget), moneyOf(snap.Spent), moneyOf(snap.Remaining))

	if len(snap.Categories) == 0 {
		fmt.Fprintln(out, "  No categories yet.")
		return
	}

	rows := make([][]string, len(snap.Categories))
	for i, c := range snap.Categories {
		subs := make([]string, len(c.Subcategories))
		for j, s := range c.Subcategories {
			subs[j] = s.Name
		}
		rows[i] = []string{
			c.Name,
			moneyOf(c.Budget),
			moneyOf(c.Remaining),
			cli.FormatDays(c.DaysLogged, snap.TotalDays),
			moneyOf(c.DailyAllowance),
			strings.Join(subs, ", "),
		}
	}
	fmt.Fprint(out, cli.RenderTable(cli.Table{
		Title:   "Categories",
		Headers: []string{"Category", "Budget", "Remaining", "Days", "Per day", "Subcategories"},
		Rows:    rows,
	}))
}

// moneyOf formats a JSON money field, falling back to the raw text.
func moneyOf(n fmt.Stringer) string {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return n.String()
	}
	return cli.FormatMoney(d)
}
