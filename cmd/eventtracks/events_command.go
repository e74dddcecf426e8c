package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"eventtracks/internal/domain"
	"eventtracks/internal/services"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage events",
	}
	cmd.AddCommand(newEventsListCommand(ctx))
	cmd.AddCommand(newEventsShowCommand(ctx))
	cmd.AddCommand(newEventsCreateCommand(ctx))
	cmd.AddCommand(newEventsEditCommand(ctx))
	cmd.AddCommand(newEventsDeleteCommand(ctx))
	return cmd
}

func newEventsListCommand(ctx *commandContext) *cobra.Command {
	var trackID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ctx.client().ListEvents(cmd.Context()).Unwrap()
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			events, err := ctx.normalizer().Events(data)
			if err != nil {
				return fmt.Errorf("list events: %w", err)
			}
			if trackID > 0 {
				filtered := events[:0]
				for _, ev := range events {
					if ev.TrackID == trackID {
						filtered = append(filtered, ev)
					}
				}
				events = filtered
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, events)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No hay eventos.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderEventTable(events))
			return nil
		},
	}
	cmd.Flags().Int64Var(&trackID, "track", 0, "Only events of this track")
	return cmd
}

func renderEventTable(events []domain.Event) string {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			fmt.Sprintf("%d", ev.ID),
			ev.Name,
			ev.TrackName,
			formatDateRange(ev.Start, ev.End),
			ev.Location,
			formatSeats(ev),
		})
	}
	return renderTable(eventColumns, rows)
}

func newEventsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an event with its feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail := services.NewEventDetail(ctx.deps())
			if err := detail.Load(cmd.Context(), id); err != nil {
				return err
			}
			ev, feedbacks := detail.Event(), detail.Feedbacks()
			if ctx.jsonOutput() {
				return writeJSON(cmd, domain.EventDetail{Event: ev, Feedbacks: feedbacks})
			}

			out := cmd.OutOrStdout()
			for _, line := range renderSectionHeader(ev.Name, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Track:       %s\n", ev.TrackName)
			fmt.Fprintf(out, "Fechas:      %s\n", formatDateRange(ev.Start, ev.End))
			fmt.Fprintf(out, "Lugar:       %s\n", ev.Location)
			fmt.Fprintf(out, "Cupos:       %s\n", formatSeats(ev))
			fmt.Fprintf(out, "Ponentes:    %s\n", joinSpeakers(ev.Speakers))
			fmt.Fprintf(out, "Portada:     %s\n", imageLabel(ev.CoverImage))
			fmt.Fprintf(out, "Tarjeta:     %s\n", imageLabel(ev.CardImage))
			if ev.Description != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ev.Description)
			}
			if ev.LongDescription != "" {
				fmt.Fprintln(out)
				fmt.Fprintln(out, ev.LongDescription)
			}
			fmt.Fprintln(out)
			if len(feedbacks) == 0 {
				fmt.Fprintln(out, "Sin comentarios todavía.")
				return nil
			}
			fmt.Fprintln(out, renderFeedbackTable(feedbacks, time.Now()))
			return nil
		},
	}
}

type eventFlags struct {
	trackID         int64
	trackName       string
	name            string
	description     string
	longDescription string
	speakers        []string
	start           string
	end             string
	location        string
	capacity        int
	seats           int
	cover           string
	card            string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int64Var(&f.trackID, "track", 0, "Track id")
	flags.StringVar(&f.trackName, "track-name", "", "Track name (defaults to the track's)")
	flags.StringVar(&f.name, "name", "", "Event name")
	flags.StringVar(&f.description, "description", "", "Short description")
	flags.StringVar(&f.longDescription, "long-description", "", "Long description")
	flags.StringArrayVar(&f.speakers, "speaker", nil, "Speaker name (repeatable)")
	flags.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	flags.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	flags.StringVar(&f.location, "location", "", "Location")
	flags.IntVar(&f.capacity, "capacity", 0, "Capacity")
	flags.IntVar(&f.seats, "seats", 0, "Available seats")
	flags.StringVar(&f.cover, "cover", "", "Cover image file")
	flags.StringVar(&f.card, "card", "", "Card image file")
}

func newEventsCreateCommand(ctx *commandContext) *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event inside a track",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.trackID <= 0 {
				return errors.New("--track is required")
			}
			form := services.EventForm{
				TrackID:         f.trackID,
				TrackName:       f.trackName,
				Name:            f.name,
				Description:     f.description,
				LongDescription: f.longDescription,
				Speakers:        f.speakers,
				Start:           f.start,
				End:             f.end,
				Location:        f.location,
				Capacity:        f.capacity,
				AvailableSeats:  f.seats,
			}
			if !cmd.Flags().Changed("seats") {
				form.AvailableSeats = f.capacity
			}
			var err error
			if form.CoverImage, err = pickImage(cmd.Context(), pathPicker{path: f.cover}); err != nil {
				return err
			}
			if form.CardImage, err = pickImage(cmd.Context(), pathPicker{path: f.card}); err != nil {
				return err
			}

			detail := services.NewTrackDetail(ctx.deps())
			if err := detail.Load(cmd.Context(), f.trackID); err != nil {
				return err
			}
			if form.TrackName == "" {
				form.TrackName = detail.Track().Name
			}
			created, err := detail.CreateEvent(cmd.Context(), form)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, created)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine("Evento", statusOK, fmt.Sprintf("creado %q (id %d)", created.Name, created.ID), shouldColorize(out)))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newEventsEditCommand(ctx *commandContext) *cobra.Command {
	var f eventFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := f.patch(cmd, id)
			if err != nil {
				return err
			}

			current := services.NewEventDetail(ctx.deps())
			if err := current.Load(cmd.Context(), id); err != nil {
				return err
			}
			detail := services.NewTrackDetail(ctx.deps())
			if trackID := current.Event().TrackID; trackID > 0 {
				if err := detail.Load(cmd.Context(), trackID); err != nil {
					return err
				}
			}
			edited, err := detail.EditEvent(cmd.Context(), patch)
			if err != nil {
				return err
			}
			if edited.ID == 0 {
				edited = patch.Apply(current.Event())
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, edited)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine("Evento", statusOK, fmt.Sprintf("actualizado %d", id), shouldColorize(out)))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// patch collects the flags the user set into an EventPatch.
func (f *eventFlags) patch(cmd *cobra.Command, id int64) (domain.EventPatch, error) {
	flags := cmd.Flags()
	p := domain.EventPatch{ID: id}
	if flags.Changed("track") {
		p.TrackID = &f.trackID
	}
	if flags.Changed("track-name") {
		p.TrackName = &f.trackName
	}
	if flags.Changed("name") {
		p.Name = &f.name
	}
	if flags.Changed("description") {
		p.Description = &f.description
	}
	if flags.Changed("long-description") {
		p.LongDescription = &f.longDescription
	}
	if flags.Changed("speaker") {
		p.Speakers = &f.speakers
	}
	if flags.Changed("location") {
		p.Location = &f.location
	}
	if flags.Changed("capacity") {
		p.Capacity = &f.capacity
	}
	if flags.Changed("seats") {
		p.AvailableSeats = &f.seats
	}
	for _, d := range []struct {
		flag  string
		value string
		dst   **time.Time
	}{
		{"start", f.start, &p.Start},
		{"end", f.end, &p.End},
	} {
		if !flags.Changed(d.flag) {
			continue
		}
		t, err := time.Parse(time.DateOnly, d.value)
		if err != nil {
			return p, fmt.Errorf("--%s must be YYYY-MM-DD: %w", d.flag, err)
		}
		*d.dst = &t
	}
	var err error
	if p.CoverImage, err = pickChangedImage(cmd.Context(), flags.Changed("cover"), f.cover); err != nil {
		return p, err
	}
	if p.CardImage, err = pickChangedImage(cmd.Context(), flags.Changed("card"), f.card); err != nil {
		return p, err
	}
	return p, nil
}

func newEventsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event and its feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail := services.NewTrackDetail(ctx.deps())
			if err := detail.DeleteEvent(cmd.Context(), id); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"deleted": id})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine("Evento", statusOK, fmt.Sprintf("eliminado %d", id), shouldColorize(out)))
			return nil
		},
	}
}
