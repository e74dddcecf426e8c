package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"eventtracks/internal/domain"
	"eventtracks/internal/services"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Manage event tracks",
	}
	cmd.AddCommand(newTracksListCommand(ctx))
	cmd.AddCommand(newTracksShowCommand(ctx))
	cmd.AddCommand(newTracksCreateCommand(ctx))
	cmd.AddCommand(newTracksEditCommand(ctx))
	cmd.AddCommand(newTracksDeleteCommand(ctx))
	return cmd
}

func newTracksListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List event tracks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := services.NewTrackList(ctx.deps())
			if err := list.Refresh(cmd.Context()); err != nil {
				return err
			}
			items := list.Items()
			if ctx.jsonOutput() {
				return writeJSON(cmd, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No hay tracks de eventos.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTrackTable(items))
			return nil
		},
	}
}

func renderTrackTable(items []domain.EventTrack) string {
	rows := make([][]string, 0, len(items))
	for _, t := range items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", t.ID),
			t.Name,
			t.Description,
			formatCount(t.EventsCount),
		})
	}
	return renderTable(trackColumns, rows)
}

func newTracksShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a track and its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail := services.NewTrackDetail(ctx.deps())
			if err := detail.Load(cmd.Context(), id); err != nil {
				return err
			}
			track, events := detail.Track(), detail.Events()
			if ctx.jsonOutput() {
				return writeJSON(cmd, domain.TrackDetail{Track: track, Events: events})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(track.Name, colorize) {
				fmt.Fprintln(out, line)
			}
			if track.Description != "" {
				fmt.Fprintln(out, track.Description)
			}
			fmt.Fprintf(out, "Portada: %s\n", imageLabel(track.CoverImage))
			fmt.Fprintf(out, "Overlay: %s\n", imageLabel(track.OverlayImage))
			fmt.Fprintln(out)
			if len(events) == 0 {
				fmt.Fprintln(out, "Este track no tiene eventos.")
				return nil
			}
			fmt.Fprintln(out, renderEventTable(events))
			return nil
		},
	}
}

func newTracksCreateCommand(ctx *commandContext) *cobra.Command {
	var form services.TrackForm
	var cover, overlay string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if form.CoverImage, err = pickImage(cmd.Context(), pathPicker{path: cover}); err != nil {
				return err
			}
			if form.OverlayImage, err = pickImage(cmd.Context(), pathPicker{path: overlay}); err != nil {
				return err
			}
			list := services.NewTrackList(ctx.deps())
			created, err := list.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, created)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine("Track", statusOK, fmt.Sprintf("creado %q (id %d)", created.Name, created.ID), shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "Track name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Track description")
	cmd.Flags().StringVar(&cover, "cover", "", "Cover image file")
	cmd.Flags().StringVar(&overlay, "overlay", "", "Overlay image file")
	return cmd
}

func newTracksEditCommand(ctx *commandContext) *cobra.Command {
	var name, description, cover, overlay string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an event track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := domain.EventTrackPatch{ID: id}
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if patch.CoverImage, err = pickChangedImage(cmd.Context(), flags.Changed("cover"), cover); err != nil {
				return err
			}
			if patch.OverlayImage, err = pickChangedImage(cmd.Context(), flags.Changed("overlay"), overlay); err != nil {
				return err
			}

			list := services.NewTrackList(ctx.deps())
			if err := list.Refresh(cmd.Context()); err != nil {
				return err
			}
			edited, err := list.Edit(cmd.Context(), patch)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, edited)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine("Track", statusOK, fmt.Sprintf("actualizado %d", id), shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New track name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&cover, "cover", "", "New cover image file")
	cmd.Flags().StringVar(&overlay, "overlay", "", "New overlay image file")
	return cmd
}

func newTracksDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event track with its events and feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list := services.NewTrackList(ctx.deps())
			if err := list.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"deleted": id})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine("Track", statusOK, fmt.Sprintf("eliminado %d", id), shouldColorize(out)))
			return nil
		},
	}
}

func joinSpeakers(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
