package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/cashflow/internal/betting"
	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagBetDate    string
	flagBetMatch   string
	flagBetPick    string
	flagBetOdds    string
	flagBetStake   string
	flagBetPending bool
	flagExportFmt  string
	flagExportOut  string
	flagReplace    bool
	flagYes        bool
)

var betsCmd = &cobra.Command{
	Use:   "bets",
	Short: "Record and analyse football bets",
	RunE:  runBetsList,
}

var betsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a pending bet",
	Example: "  cashflow bets add --match \"Ajax vs PSV\" --pick draw --odds 3.4 --stake 25\n" +
		"  cashflow bets add --date 2026-03-14 --match \"Lyon vs Nice\" --pick 2 --odds 2.75 --stake 40",
	Args: cobra.NoArgs,
	RunE: runBetsAdd,
}

var betsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded bets",
	Args:  cobra.NoArgs,
	RunE:  runBetsList,
}

var betsSettleCmd = &cobra.Command{
	Use:   "settle <id> <outcome>",
	Short: "Set the result of a bet (home, draw, away or pending)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBetsSettle,
}

var betsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a bet",
	Args:  cobra.ExactArgs(1),
	RunE:  runBetsDelete,
}

var betsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summary, breakdowns and strategy advice",
	Args:  cobra.NoArgs,
	RunE:  runBetsStats,
}

var betsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the log as JSON records or CSV",
	Args:  cobra.NoArgs,
	RunE:  runBetsExport,
}

var betsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import JSON records, merging by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runBetsImport,
}

var betsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every bet",
	Args:  cobra.NoArgs,
	RunE:  runBetsClear,
}

func init() {
	f := betsAddCmd.Flags()
	f.StringVar(&flagBetDate, "date", "", "Match date, YYYY-MM-DD (default today)")
	f.StringVar(&flagBetMatch, "match", "", "Match label, e.g. \"Home vs Away\"")
	f.StringVar(&flagBetPick, "pick", "", "home, draw or away (1, x, 2)")
	f.StringVar(&flagBetOdds, "odds", "", "Decimal odds")
	f.StringVar(&flagBetStake, "stake", "", "Stake amount")
	_ = betsAddCmd.MarkFlagRequired("match")
	_ = betsAddCmd.MarkFlagRequired("pick")
	_ = betsAddCmd.MarkFlagRequired("odds")
	_ = betsAddCmd.MarkFlagRequired("stake")

	betsListCmd.Flags().BoolVar(&flagBetPending, "pending", false, "Only unsettled bets")
	betsExportCmd.Flags().StringVarP(&flagExportFmt, "format", "f", "json", "json or csv")
	betsExportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Output file (default stdout)")
	betsImportCmd.Flags().BoolVar(&flagReplace, "replace", false, "Discard the current log first")
	betsClearCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip the confirmation prompt")

	betsCmd.AddCommand(betsAddCmd, betsListCmd, betsSettleCmd, betsDeleteCmd,
		betsStatsCmd, betsExportCmd, betsImportCmd, betsClearCmd)
	rootCmd.AddCommand(betsCmd)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// resolveBet finds a bet by full ID or unique ID prefix.
func resolveBet(st *store.Store, ref string) (betting.Bet, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return st.GetBet(id)
	}

	bets, err := st.ListBets()
	if err != nil {
		return betting.Bet{}, err
	}
	ref = strings.ToLower(strings.TrimSpace(ref))
	var found []betting.Bet
	for _, b := range bets {
		if ref != "" && strings.HasPrefix(b.ID.String(), ref) {
			found = append(found, b)
		}
	}
	switch len(found) {
	case 0:
		return betting.Bet{}, fmt.Errorf("%q: %w", ref, store.ErrNotFound)
	case 1:
		return found[0], nil
	}
	return betting.Bet{}, fmt.Errorf("id prefix %q matches %d bets", ref, len(found))
}

func runBetsAdd(_ *cobra.Command, _ []string) error {
	date := time.Now()
	if flagBetDate != "" {
		d, err := time.Parse(time.DateOnly, flagBetDate)
		if err != nil {
			return fmt.Errorf("%w: date: %v", betting.ErrInvalidBet, err)
		}
		date = d
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	pick, err := betting.ParsePick(flagBetPick)
	if err != nil {
		return err
	}
	odds, err := decimal.NewFromString(flagBetOdds)
	if err != nil {
		return fmt.Errorf("%w: odds: %v", betting.ErrInvalidBet, err)
	}
	stake, err := decimal.NewFromString(flagBetStake)
	if err != nil {
		return fmt.Errorf("%w: stake: %v", betting.ErrInvalidBet, err)
	}
	bet, err := betting.NewBet(date, flagBetMatch, pick, odds, stake)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.AddBet(bet); err != nil {
		return err
	}
	log.WithField("id", bet.ID).Debug("bet added")
	fmt.Printf("  Added %s  %s  %s @ %s for %s\n", shortID(bet.ID), bet.Label, bet.Pick,
		bet.Odds.StringFixed(2), cli.FormatDecimal(bet.Stake, cfg.General.Currency))
	return nil
}

func runBetsList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	bets, err := st.ListBets()
	if err != nil {
		return err
	}
	if flagBetPending {
		pending := bets[:0]
		for _, b := range bets {
			if b.Outcome == betting.Pending {
				pending = append(pending, b)
			}
		}
		bets = pending
	}
	if len(bets) == 0 {
		fmt.Println("\n  No bets recorded. Add one with `cashflow bets add`.")
		return nil
	}

	cur := cfg.General.Currency
	rows := make([][]string, 0, len(bets))
	for _, b := range bets {
		profit := "-"
		if b.Outcome != betting.Pending {
			profit = cli.FormatSignedMoney(b.Profit().InexactFloat64(), cur)
		}
		rows = append(rows, []string{
			shortID(b.ID),
			b.Date.Format(time.DateOnly),
			b.Label,
			string(b.Pick),
			b.Odds.StringFixed(2),
			cli.FormatDecimal(b.Stake, cur),
			string(b.Outcome),
			profit,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Bets (%d)", len(bets)),
		Headers: []string{"ID", "Date", "Match", "Pick", "Odds", "Stake", "Result", "Profit"},
		Rows:    rows,
	}))
	return nil
}

func runBetsSettle(_ *cobra.Command, args []string) error {
	outcome, err := betting.ParseOutcome(args[1])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	bet, err := resolveBet(st, args[0])
	if err != nil {
		return err
	}
	if err := st.UpdateOutcome(bet.ID, outcome); err != nil {
		return err
	}
	bet.Outcome = outcome

	switch {
	case outcome == betting.Pending:
		fmt.Println(cli.RenderStatus(cli.ToneInfo, bet.Label+" reopened"))
	case bet.Won():
		fmt.Println(cli.RenderStatus(cli.ToneGood, fmt.Sprintf("%s won %s", bet.Label,
			cli.FormatSignedMoney(bet.Profit().InexactFloat64(), cfg.General.Currency))))
	default:
		fmt.Println(cli.RenderStatus(cli.ToneBad, fmt.Sprintf("%s lost %s", bet.Label,
			cli.FormatDecimal(bet.Stake, cfg.General.Currency))))
	}
	return nil
}

func runBetsDelete(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	bet, err := resolveBet(st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteBet(bet.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted %s  %s\n", shortID(bet.ID), bet.Label)
	return nil
}

func groupRows(groups []betting.Group) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			fmt.Sprint(g.Bets),
			fmt.Sprint(g.Wins),
			cli.FormatDecimal(g.Stake, cfg.General.Currency),
			cli.FormatSignedMoney(g.Profit.InexactFloat64(), cfg.General.Currency),
			cli.FormatPct(g.ROI),
		})
	}
	return rows
}

func runBetsStats(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	bets, err := st.ListBets()
	if err != nil {
		return err
	}
	if len(bets) == 0 {
		fmt.Println("\n  No bets recorded.")
		return nil
	}

	cur := cfg.General.Currency
	sum := betting.Summarize(bets)

	fmt.Println()
	fmt.Println(cli.RenderTitle("BETTING LOG"))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Bets", fmt.Sprintf("%d (%d pending)", sum.Bets, sum.Pending)},
			{"Won", fmt.Sprint(sum.Wins)},
			{"Staked", cli.FormatDecimal(sum.Stake, cur)},
			{"Profit", cli.FormatSignedMoney(sum.Profit.InexactFloat64(), cur)},
			{"Win rate", cli.FormatPct(sum.WinRate)},
			{"ROI", cli.FormatPct(sum.ROI)},
		},
	}))

	headers := []string{"Group", "Bets", "Won", "Staked", "Profit", "ROI"}
	fmt.Print(cli.RenderTable(cli.Table{Title: "By Pick", Headers: headers, Rows: groupRows(betting.ByPick(bets))}))
	fmt.Print(cli.RenderTable(cli.Table{Title: "By Odds", Headers: headers, Rows: groupRows(betting.ByOddsBand(bets))}))

	curve := betting.CumulativeProfit(bets)
	values := make([]float64, len(curve))
	for i, p := range curve {
		values[i] = p.Cumulative.InexactFloat64()
	}
	fmt.Printf("  Cumulative profit  %s  %s\n\n", cli.RenderSparkline(values),
		cli.FormatSignedMoney(values[len(values)-1], cur))

	buckets := betting.StakeHistogram(bets, 5)
	peak := 0
	for _, b := range buckets {
		peak = max(peak, b.Count)
	}
	fmt.Println("  Stakes")
	for _, b := range buckets {
		label := fmt.Sprintf("%9s-%-9s", cli.FormatCompact(b.Low), cli.FormatCompact(b.High))
		fmt.Printf("%s %d\n", cli.RenderHorizontalBar(label, float64(b.Count), float64(peak), 30), b.Count)
	}
	fmt.Println()

	if advice, ok := betting.Advise(bets); ok {
		fmt.Println("  Strategy")
		for _, line := range advice.Lines() {
			fmt.Println(cli.RenderStatus(cli.ToneInfo, line))
		}
		fmt.Println()
	}
	return nil
}

func runBetsExport(_ *cobra.Command, _ []string) error {
	format := strings.ToLower(flagExportFmt)
	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown export format %q (want json or csv)", flagExportFmt)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var w io.Writer = os.Stdout
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if format == "csv" {
		err = st.ExportCSV(w)
	} else {
		err = st.ExportJSON(w)
	}
	if err != nil {
		return fmt.Errorf("exporting bets: %w", err)
	}
	if flagExportOut != "" {
		fmt.Fprintf(os.Stderr, "  Exported to %s\n", flagExportOut)
	}
	return nil
}

func runBetsImport(_ *cobra.Command, args []string) error {
	//nolint:gosec // import path is given by the local user
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	n, err := st.ImportJSON(f, flagReplace)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}
	verb := "Merged"
	if flagReplace {
		verb = "Replaced the log with"
	}
	fmt.Printf("  %s %d bets from %s\n", verb, n, args[0])
	return nil
}

func runBetsClear(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	n, err := st.Count()
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("  The betting log is already empty.")
		return nil
	}

	if !flagYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d bets?", n)).
			Description("Export first with `cashflow bets export` if you may need them.").
			Affirmative("Delete").
			Negative("Keep").
			Value(&confirmed).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !confirmed {
			return nil
		}
	}

	if err := st.Clear(); err != nil {
		return err
	}
	fmt.Printf("  Deleted %d bets\n", n)
	return nil
}
