package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"eventtracks/internal/domain"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or change the stored user session",
	}
	cmd.AddCommand(newSessionShowCommand(ctx))
	cmd.AddCommand(newSessionSetCommand(ctx))
	cmd.AddCommand(newSessionClearCommand(ctx))
	return cmd
}

func newSessionShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored user session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSessions(cmd.Context(), func(repo domain.SessionRepository) error {
				session, err := repo.Get(cmd.Context())
				out := cmd.OutOrStdout()
				if errors.Is(err, domain.ErrNotFound) {
					if ctx.jsonOutput() {
						return writeJSON(cmd, nil)
					}
					fmt.Fprintln(out, renderStatusLine("Sesión", statusWarn, "no hay sesión guardada", shouldColorize(out)))
					return nil
				}
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, session)
				}
				fmt.Fprintln(out, renderTable(sessionColumns, [][]string{{session.ID, session.Name, session.Email}}))
				return nil
			})
		},
	}
}

func newSessionSetCommand(ctx *commandContext) *cobra.Command {
	var session domain.UserSession

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session.ID = strings.TrimSpace(session.ID)
			session.Name = strings.TrimSpace(session.Name)
			session.Email = strings.TrimSpace(session.Email)
			if session.ID == "" {
				return errors.New("--id is required")
			}
			return ctx.withSessions(cmd.Context(), func(repo domain.SessionRepository) error {
				if err := repo.Store(cmd.Context(), &session); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, session)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderStatusLine("Sesión", statusOK, fmt.Sprintf("guardada para %s", session.ID), shouldColorize(out)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&session.ID, "id", "", "User id")
	cmd.Flags().StringVar(&session.Name, "name", "", "User name")
	cmd.Flags().StringVar(&session.Email, "email", "", "User e-mail")
	return cmd
}

func newSessionClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSessions(cmd.Context(), func(repo domain.SessionRepository) error {
				if err := repo.Clear(cmd.Context()); err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"cleared": true})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderStatusLine("Sesión", statusOK, "eliminada", shouldColorize(out)))
				return nil
			})
		},
	}
}
