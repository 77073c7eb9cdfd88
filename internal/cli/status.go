package cli

import (
	"fmt"
	"strings"

	"github.com/soyeahso/moodai/internal/config"
	"github.com/soyeahso/moodai/internal/version"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show moodai status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "moodai %s (commit %s)\n\n", version.Version, version.Commit)

			fmt.Fprintf(out, "Config:  %s\n", paths.Config)
			fmt.Fprintf(out, "Data:    %s\n", paths.Data)
			fmt.Fprintf(out, "Logs:    %s\n", paths.Logs)
			fmt.Fprintln(out)

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Fprintf(out, "Config:  error loading: %v\n", err)
				return nil
			}

			fmt.Fprintf(out, "Gateway: port=%d bind=%s auth=%s tls=%v\n",
				cfg.Gateway.Port, cfg.Gateway.Bind, cfg.Gateway.Auth.Mode, cfg.Gateway.TLS.Enabled)

			providers := []string{providerLabel(cfg.LLM.Provider, cfg.LLM.Model)}
			for _, fb := range cfg.LLM.Fallbacks {
				providers = append(providers, providerLabel(fb.Provider, fb.Model))
			}
			fmt.Fprintf(out, "LLM:     %s structured=%v\n", strings.Join(providers, " -> "), cfg.LLM.UseStructuredReplies())

			fmt.Fprintf(out, "History: store=%s max=%d context=%d timeout=%s\n",
				cfg.Conversation.HistoryStore, cfg.Conversation.MaxHistory,
				cfg.Conversation.ContextMessages, cfg.Conversation.GenerationTimeout())

			if cfg.Store.Driver == "sqlite" {
				fmt.Fprintf(out, "Store:   sqlite %s\n", paths.DatabasePath(cfg.Store))
			} else {
				fmt.Fprintf(out, "Store:   %s\n", cfg.Store.Driver)
			}

			if cfg.RateLimit.IsEnabled() {
				fmt.Fprintf(out, "Limits:  %d/min burst=%d\n", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
			} else {
				fmt.Fprintln(out, "Limits:  off")
			}
			if cfg.Metrics.IsEnabled() {
				fmt.Fprintf(out, "Metrics: %s\n", cfg.Metrics.Path)
			} else {
				fmt.Fprintln(out, "Metrics: off")
			}

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Fprintf(out, "\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Fprintf(out, "  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}

func providerLabel(provider, model string) string {
	if model == "" {
		return provider
	}
	return provider + "/" + model
}
