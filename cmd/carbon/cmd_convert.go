package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xraph/carbon"
	"github.com/xraph/carbon/convert"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <activity> <factor>",
		Short: "Multiply an activity amount by an emission factor",
		Long:  "Prints activity x factor in parts per million. Does not touch the ledger.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, err := carbon.ParseAmount(args[0])
			if err != nil {
				return fmt.Errorf("activity: %w", err)
			}
			factor, err := carbon.ParseAmount(args[1])
			if err != nil {
				return fmt.Errorf("factor: %w", err)
			}

			out, err := convert.Emissions(activity, factor)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatInt(out, 10))
			return nil
		},
	}
}
