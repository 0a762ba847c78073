package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xraph/carbon"
)

func newRecordCmd(a *app) *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "record <amount> <category>",
		Short: "Append an emission to your own ledger",
		Long:  "Appends an emission, in parts per million, to the ledger of --account. Needs a persistent backend to be useful across runs.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := carbon.ParseAmount(args[0])
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer a.stopLedger(l)

			ctx := carbon.WithAccount(cmd.Context(), account)
			rec, err := l.RecordFromContext(ctx, amount, args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Caller identity (required)")
	_ = cmd.MarkFlagRequired("account") //nolint:errcheck // flag exists

	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history <account>",
		Short: "Print an account's ledger in append order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer a.stopLedger(l)

			records, err := l.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIMESTAMP\tAMOUNT\tCATEGORY")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.ID, r.Timestamp, r.Amount, r.Category)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newTotalCmd(a *app) *cobra.Command {
	var (
		category   string
		start, end int64
	)

	cmd := &cobra.Command{
		Use:   "total <account>",
		Short: "Sum an account's emissions",
		Long:  "Sums all emissions, or only those of --category, or only those stamped within [--start, --end].",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := totalFilter(cmd, category, start, end)
			if err != nil {
				return err
			}

			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer a.stopLedger(l)

			total, err := l.TotalFiltered(cmd.Context(), args[0], filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatInt(total, 10))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only sum this category (exact match)")
	cmd.Flags().Int64Var(&start, "start", 0, "Window start, unix seconds (inclusive)")
	cmd.Flags().Int64Var(&end, "end", 0, "Window end, unix seconds (inclusive)")

	return cmd
}

// totalFilter turns the total flags into a Filter. Category and window are
// exclusive; a window needs both bounds.
func totalFilter(cmd *cobra.Command, category string, start, end int64) (carbon.Filter, error) {
	flags := cmd.Flags()
	hasCategory := flags.Changed("category")
	hasStart, hasEnd := flags.Changed("start"), flags.Changed("end")

	switch {
	case hasCategory && (hasStart || hasEnd):
		return carbon.Filter{}, errors.New("--category cannot be combined with --start/--end")
	case hasStart != hasEnd:
		return carbon.Filter{}, errors.New("--start and --end must be given together")
	case hasCategory:
		return carbon.CategoryFilter(category), nil
	case hasStart:
		return carbon.WindowFilter(start, end), nil
	default:
		return carbon.Filter{}, nil
	}
}

func newBreakdownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "breakdown <account>",
		Short: "Print an account's totals per category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer a.stopLedger(l)

			totals, err := l.Breakdown(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			categories := make([]string, 0, len(totals))
			for c := range totals {
				categories = append(categories, c)
			}
			sort.Strings(categories)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tTOTAL")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%d\n", c, totals[c])
			}
			return tw.Flush()
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
