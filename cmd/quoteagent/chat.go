package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/richfrem/quoteagent/internal/presentation/tui"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/runner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run an intake interactively in the terminal",
	Long: `Starts an interactive quote intake. Answer with the option text or its number.
Type /reset to start over, exit or quit to leave. Sessions are kept in the
configured store, so --session resumes an earlier conversation.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		backend, _, logger := loadBackend(ctx, cmd, true)
		defer backend.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			sessionID = fmt.Sprintf("cli-%d", time.Now().UnixNano())
		}

		var tc map[string]any
		if service, _ := cmd.Flags().GetString("service"); service != "" {
			tc = map[string]any{domain.ContextPreselectedService: service}
		}

		if term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(os.Stdout, "Plumbing quote intake")
		}

		r := runner.NewRunner(
			runner.WithLogger(logger),
			runner.WithSessionID(sessionID),
			runner.WithTurnContext(tc),
			runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout,
				runner.WithTextHandlerRenderer(tui.NewRenderer()),
			)),
		)
		if err := r.Run(ctx, backend.Agent); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		s, err := backend.Agent.Session(context.Background(), sessionID)
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
		case err != nil:
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
		case s.InReview():
			fmt.Printf("\nReady for submission: quoteagent session submit %s\n", sessionID)
		default:
			fmt.Printf("\nResume later with: quoteagent chat --session %s\n", sessionID)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("session", "", "Session to start or resume (a new id is generated when empty)")
	chatCmd.Flags().String("service", "", "Service chosen up front; the service question is skipped")
}
