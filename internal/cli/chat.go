package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant from the command line",
	}

	cmd.AddCommand(newChatSendCmd())
	cmd.AddCommand(newChatClearCmd())
	return cmd
}

func newChatSendCmd() *cobra.Command {
	var (
		user   string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "send [message]",
		Short: "Send a message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if strings.TrimSpace(message) == "" {
				return fmt.Errorf("message cannot be empty")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			result := rt.runner.Respond(ctx, domain.ParseIdentity(user), message)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintln(out, result.Reply)
			fmt.Fprintf(cmd.ErrOrStderr(), "\n[mood=%s score=%.2f outcome=%s provider=%s]\n",
				result.Mood, result.Score, result.Outcome, rt.runner.Provider())
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "identity to chat as (blank is anonymous)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")

	return cmd
}

func newChatClearCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the conversation window for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ParseIdentity(user)
			if id.IsAnonymous() {
				return fmt.Errorf("--user is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Conversation.HistoryStore != "redis" {
				fmt.Fprintln(cmd.ErrOrStderr(), "conversation history is in-memory; nothing persists between commands")
				return nil
			}

			ctx := cmd.Context()
			rt, err := newRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.runner.ClearHistory(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared conversation for %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "identity whose window to clear")

	return cmd
}
