package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"eventtracks/internal/domain"
	"eventtracks/internal/services"
)

func newFeedbackCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Read and send event feedback",
	}
	cmd.AddCommand(newFeedbackListCommand(ctx))
	cmd.AddCommand(newFeedbackSendCommand(ctx))
	cmd.AddCommand(newFeedbackDeleteCommand(ctx))
	return cmd
}

func newFeedbackListCommand(ctx *commandContext) *cobra.Command {
	var eventID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feedback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var feedbacks []domain.Feedback
			if eventID > 0 {
				detail := services.NewEventDetail(ctx.deps())
				if err := detail.Load(cmd.Context(), eventID); err != nil {
					return err
				}
				feedbacks = detail.Feedbacks()
			} else {
				data, err := ctx.client().ListFeedbacks(cmd.Context()).Unwrap()
				if err != nil {
					return fmt.Errorf("list feedbacks: %w", err)
				}
				if feedbacks, err = ctx.normalizer().Feedbacks(data); err != nil {
					return fmt.Errorf("list feedbacks: %w", err)
				}
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, feedbacks)
			}
			if len(feedbacks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Sin comentarios todavía.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderFeedbackTable(feedbacks, time.Now()))
			return nil
		},
	}
	cmd.Flags().Int64Var(&eventID, "event", 0, "Only feedback of this event")
	return cmd
}

func renderFeedbackTable(feedbacks []domain.Feedback, now time.Time) string {
	rows := make([][]string, 0, len(feedbacks))
	for _, fb := range feedbacks {
		stars := fb.Stars
		user := fb.UserName
		if user == "" {
			user = "Anónimo"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", fb.ID),
			fmt.Sprintf("%d", fb.EventID),
			formatStars(&stars),
			user,
			fb.Comment,
			formatAge(fb.CreatedAt, now),
		})
	}
	return renderTable(feedbackColumns, rows)
}

func newFeedbackSendCommand(ctx *commandContext) *cobra.Command {
	var form services.FeedbackForm

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Rate an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.EventID <= 0 {
				return errors.New("--event is required")
			}
			if strings.TrimSpace(form.UserID) == "" {
				session, err := currentSession(cmd.Context(), ctx)
				if err != nil {
					return err
				}
				form.UserID = session.ID
				if form.UserName == "" {
					form.UserName = session.Name
				}
			}

			detail := services.NewEventDetail(ctx.deps())
			created, err := detail.SubmitFeedback(cmd.Context(), form)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				if created.ID == 0 {
					return writeJSON(cmd, detail.Feedbacks())
				}
				return writeJSON(cmd, created)
			}
			out := cmd.OutOrStdout()
			msg := fmt.Sprintf("enviado para el evento %d", form.EventID)
			if created.ID != 0 {
				msg = fmt.Sprintf("enviado (id %d) para el evento %d", created.ID, created.EventID)
			}
			fmt.Fprintln(out, renderStatusLine("Feedback", statusOK, msg, shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().Int64Var(&form.EventID, "event", 0, "Event id")
	cmd.Flags().Float64Var(&form.Stars, "stars", 0, "Rating from 0 to 5")
	cmd.Flags().StringVar(&form.Comment, "comment", "", "Comment")
	cmd.Flags().StringVar(&form.UserID, "user", "", "User id (defaults to the stored session)")
	cmd.Flags().StringVar(&form.UserName, "user-name", "", "User name shown next to the comment")
	return cmd
}

// currentSession reads the stored user session.
func currentSession(ctx context.Context, c *commandContext) (*domain.UserSession, error) {
	var session *domain.UserSession
	err := c.withSessions(ctx, func(repo domain.SessionRepository) error {
		s, err := repo.Get(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New("no user session stored; run `eventtracks session set` or pass --user")
		}
		if err != nil {
			return err
		}
		session = s
		return nil
	})
	return session, err
}

func newFeedbackDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a feedback entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail := services.NewEventDetail(ctx.deps())
			if err := detail.DeleteFeedback(cmd.Context(), id); err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"deleted": id})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusLine("Feedback", statusOK, fmt.Sprintf("eliminado %d", id), shouldColorize(out)))
			return nil
		},
	}
}
