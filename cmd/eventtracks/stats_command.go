package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"eventtracks/internal/services"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Ratings and subscription statistics",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ratings",
		Short: "Average stars per event, grouped by track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := services.NewStats(ctx.deps())
			if err := stats.Refresh(cmd.Context()); err != nil {
				return err
			}
			ratings := stats.Ratings()
			if ctx.jsonOutput() {
				return writeJSON(cmd, ratings)
			}
			out := cmd.OutOrStdout()
			if len(ratings) == 0 {
				fmt.Fprintln(out, "No hay eventos para calificar.")
				return nil
			}
			colorize := shouldColorize(out)
			for _, track := range ratings {
				for _, line := range renderSectionHeader(track.TrackName, colorize) {
					fmt.Fprintln(out, line)
				}
				rows := make([][]string, 0, len(track.Events))
				for _, ev := range track.Events {
					rows = append(rows, []string{ev.EventName, formatStars(ev.Average), fmt.Sprintf("%d", ev.Count)})
				}
				fmt.Fprintln(out, renderTable(ratingColumns, rows))
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "subscriptions",
		Short: "Subscription percentage per event, grouped by track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := services.NewStats(ctx.deps())
			if err := stats.Refresh(cmd.Context()); err != nil {
				return err
			}
			subs := stats.Subscriptions()
			if ctx.jsonOutput() {
				return writeJSON(cmd, subs)
			}
			out := cmd.OutOrStdout()
			if len(subs) == 0 {
				fmt.Fprintln(out, "No hay eventos con suscripciones.")
				return nil
			}
			colorize := shouldColorize(out)
			for _, track := range subs {
				for _, line := range renderSectionHeader(track.TrackName, colorize) {
					fmt.Fprintln(out, line)
				}
				rows := make([][]string, 0, len(track.Events))
				for _, ev := range track.Events {
					rows = append(rows, []string{
						ev.EventName,
						printer.Sprintf("%d / %d", ev.Subscribed, ev.Capacity),
						formatPercent(ev.Percentage),
					})
				}
				fmt.Fprintln(out, renderTable(subscriptionColumns, rows))
			}
			return nil
		},
	})
	return cmd
}
