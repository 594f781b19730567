package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agenthub/agenthub/internal/config"
	"github.com/agenthub/agenthub/pkg/adapters/memory"
	redisadapter "github.com/agenthub/agenthub/pkg/adapters/redis"
	"github.com/agenthub/agenthub/pkg/ports"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted conversations",
	Long:  `List, inspect, and remove conversations in the configured state store.`,
}

// getStore builds a store from the configured backend. The memory
// backend is process-local, so only the Redis backend is useful here.
func getStore(cmd *cobra.Command) ports.StateStore {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Store.Backend != "redis" {
		fmt.Println("Warning: memory backend holds no persisted sessions; configure store.backend: redis")
		return memory.NewStore()
	}
	return redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		redisadapter.WithTTL(cfg.Store.TTL))
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active conversations",
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		users, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(users) == 0 {
			fmt.Println("No active sessions found.")
			return
		}

		fmt.Println("Active Sessions:")
		for _, u := range users {
			fmt.Println("- " + u)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <user-id>",
	Short: "Inspect the state of a conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userID := args[0]
		store := getStore(cmd)

		state, err := store.Load(cmd.Context(), userID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", userID, err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling state: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <user-id>...",
	Short: "Remove one or more conversations",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := getStore(cmd)
		hasError := false

		for _, userID := range args {
			if err := store.Delete(cmd.Context(), userID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", userID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", userID)
			}
		}
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}
