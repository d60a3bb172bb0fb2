package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/flowboard/pkg/ports"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored editing sessions",
	Long:  `List, inspect, and remove graph snapshots in the configured storage backend.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore(cmd)
		if err != nil {
			return err
		}
		sessions, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No stored sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the graph snapshot of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		store, err := getStore(cmd)
		if err != nil {
			return err
		}

		g, err := store.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session '%s': %w", sessionID, err)
		}

		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore(cmd)
		if err != nil {
			return err
		}
		if all, _ := cmd.Flags().GetBool("all"); all {
			if args, err = store.List(cmd.Context()); err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
		}

		var errs []error
		for _, sessionID := range args {
			if err := store.Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("failed to remove '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}

func getStore(cmd *cobra.Command) (ports.GraphStore, error) {
	app, err := buildApp(cmd, nil)
	if err != nil {
		return nil, err
	}
	return app.Store, nil
}
