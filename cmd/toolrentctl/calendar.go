package main

import (
	"context"
	"fmt"
	"io"

	"toolrent/pkg/model"

	"github.com/spf13/cobra"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var toolID, start, end string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a tool is free for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bc, err := opts.bookingClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			resp, err := bc.Availability(ctx, toolID, start, end)
			if err != nil {
				return err
			}
			if err := expectOK(resp); err != nil {
				return err
			}
			result, err := bc.DecodeAvailability(resp)
			if err != nil {
				return err
			}
			printAvailability(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&toolID, "tool", "", "tool id")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	for _, name := range []string{"tool", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func printAvailability(out io.Writer, r *model.AvailabilityResult) {
	if r.Available {
		fmt.Fprintf(out, "available %s..%s\n", r.StartDate, r.EndDate)
		return
	}
	if r.Conflict != nil {
		fmt.Fprintf(out, "unavailable: conflicts with %s..%s\n", r.Conflict.StartDate, r.Conflict.EndDate)
		return
	}
	fmt.Fprintln(out, "unavailable")
}

func newBlockedDatesCmd(opts *rootOptions) *cobra.Command {
	var toolID, from, to string

	cmd := &cobra.Command{
		Use:   "blocked-dates",
		Short: "List the days a tool is booked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bc, err := opts.bookingClient()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			resp, err := bc.BlockedDates(ctx, toolID, from, to)
			if err != nil {
				return err
			}
			if err := expectOK(resp); err != nil {
				return err
			}
			blocked, err := bc.DecodeBlockedDates(resp)
			if err != nil {
				return err
			}
			for _, d := range blocked.Dates {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&toolID, "tool", "", "tool id")
	cmd.Flags().StringVar(&from, "from", "", "window start, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "window end, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("tool")
	return cmd
}
