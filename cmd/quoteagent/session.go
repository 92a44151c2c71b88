package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage intake sessions",
	Long:  `List, inspect, submit and remove sessions held in the configured session store.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Run: func(cmd *cobra.Command, args []string) {
		backend, _, _ := loadBackend(cmd.Context(), cmd, true)
		defer backend.Close()

		sessions, err := backend.Agent.SessionIDs(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(sessions) == 0 {
			fmt.Println("No active sessions found.")
			return
		}

		fmt.Println("Active Sessions:")
		for _, s := range sessions {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		backend, _, _ := loadBackend(cmd.Context(), cmd, true)
		defer backend.Close()

		s, err := backend.Agent.Session(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling session: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionSubmitCmd = &cobra.Command{
	Use:   "submit <session-id>",
	Short: "Submit a reviewed session as a service request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		userID, _ := cmd.Flags().GetString("user")
		backend, _, _ := loadBackend(cmd.Context(), cmd, true)
		defer backend.Close()

		sub, err := backend.Agent.Submit(cmd.Context(), sessionID, domain.Identity{UserID: userID})
		if err != nil {
			fmt.Printf("Error submitting '%s': %v\n", sessionID, err)
			os.Exit(1)
		}
		fmt.Printf("Submitted request %s (%s)\n", sub.ID, sub.ServiceLabel)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		backend, _, _ := loadBackend(cmd.Context(), cmd, true)
		defer backend.Close()
		hasError := false

		for _, sessionID := range args {
			if err := backend.Agent.Reset(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

var sessionSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove sessions idle for longer than --max-age",
	Run: func(cmd *cobra.Command, args []string) {
		backend, cfg, _ := loadBackend(cmd.Context(), cmd, true)
		defer backend.Close()

		maxAge := cfg.Session.MaxIdle
		if cmd.Flags().Changed("max-age") {
			maxAge, _ = cmd.Flags().GetDuration("max-age")
		}
		removed, err := backend.Agent.Sweep(cmd.Context(), maxAge)
		if err != nil {
			fmt.Printf("Error sweeping sessions: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %d idle session(s)\n", removed)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionSubmitCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionCmd.AddCommand(sessionSweepCmd)

	sessionSubmitCmd.Flags().String("user", "cli", "User id recorded on the request")
	sessionSweepCmd.Flags().Duration("max-age", 2*time.Hour, "Idle age after which a session is removed (defaults to SESSION_MAX_IDLE)")
}
