package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect a user's saved chat log",
	}

	cmd.PersistentFlags().StringVar(&user, "user", "", "identity whose chat log to read")

	identity := func() (domain.Identity, error) {
		id := domain.ParseIdentity(user)
		if id.IsAnonymous() {
			return id, fmt.Errorf("--user is required")
		}
		return id, nil
	}

	cmd.AddCommand(newHistoryListCmd(identity))
	cmd.AddCommand(newHistorySearchCmd(identity))
	cmd.AddCommand(newHistoryStatsCmd(identity))
	cmd.AddCommand(newHistoryDeleteCmd(identity))
	return cmd
}

func newHistoryListCmd(identity func() (domain.Identity, error)) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent chats, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identity()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			chats, closer, err := openChatStore(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			records, err := chats.List(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			return printChats(cmd.OutOrStdout(), records, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum chats to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newHistorySearchCmd(identity func() (domain.Identity, error)) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search a user's chats",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identity()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			chats, closer, err := openChatStore(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			records, err := chats.Search(cmd.Context(), id, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return printChats(cmd.OutOrStdout(), records, asJSON)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum chats to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newHistoryStatsCmd(identity func() (domain.Identity, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show mood statistics for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identity()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			chats, closer, err := openChatStore(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			stats, err := chats.Stats(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Chats:    %d\n", stats.TotalChats)
			fmt.Fprintf(out, "Avg mood: %.2f\n", stats.AvgMoodScore)
			fmt.Fprintf(out, "Positive: %d\n", stats.PositiveCount)
			fmt.Fprintf(out, "Negative: %d\n", stats.NegativeCount)
			fmt.Fprintf(out, "Neutral:  %d\n", stats.NeutralCount)
			return nil
		},
	}
}

func newHistoryDeleteCmd(identity func() (domain.Identity, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <chat-id>",
		Short: "Delete one chat from a user's log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := identity()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			chats, closer, err := openChatStore(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			if err := chats.Delete(cmd.Context(), id, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// printChats writes records as a table, or as JSON when asJSON is set.
func printChats(w io.Writer, records []domain.ChatRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No chats.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tMOOD\tSCORE\tMESSAGE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Mood, r.Score, truncate(r.UserMessage, 48))
	}
	return tw.Flush()
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
