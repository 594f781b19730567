package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthub/agenthub"
	"github.com/agenthub/agenthub/internal/config"
	"github.com/agenthub/agenthub/pkg/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the engine from the terminal",
	Long:  `Starts an interactive conversation against the configured engine, for local testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		userID, _ := cmd.Flags().GetString("user")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		hub, err := agenthub.New(cfg)
		if err != nil {
			fmt.Printf("Error initializing agenthub: %v\n", err)
			os.Exit(1)
		}
		defer hub.Close()

		fmt.Println("--- AgentHub Chat (type 'exit' to quit) ---")
		reader := bufio.NewReader(os.Stdin)

		for {
			fmt.Print("> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}
			message := strings.TrimSpace(line)
			if message == "" {
				continue
			}
			if message == "exit" || message == "quit" {
				fmt.Println("Bye!")
				break
			}

			state, err := hub.Turn(cmd.Context(), userID, message)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}

			for i := len(state.Messages) - 1; i >= 0; i-- {
				if state.Messages[i].Role == domain.RoleAssistant {
					fmt.Println(state.Messages[i].Content)
					break
				}
			}
			if state.Terminal() {
				fmt.Println("(conversation handed to a human agent)")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("user", "local", "User id for the conversation")
}
