package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/soyeahso/moodai/internal/config"
	"github.com/soyeahso/moodai/internal/gateway"
	"github.com/soyeahso/moodai/internal/logging"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port int
		bind string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(paths.Config)
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Gateway.Port = port
			}
			if bind != "" {
				cfg.Gateway.Bind = bind
			}

			// The config file's logging section applies unless --log-level was given.
			level := cfg.Logging.ConsoleLevel
			if logLevel != "" {
				level = logLevel
			}
			var closeLog func() error
			log, closeLog, err = openLogger(cfg.Logging, level)
			if err != nil {
				return err
			}
			defer closeLog()

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				for _, issue := range issues {
					log.Error().Str("path", issue.Path).Msg(issue.Message)
				}
				return fmt.Errorf("config validation failed with %d issue(s)", len(issues))
			}

			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			// Load raw config for RPC access
			raw, err := config.LoadRaw(paths.Config)
			if err != nil {
				raw = make(map[string]any)
			}

			// Block until SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			opts := []gateway.ServerOption{
				gateway.WithConfigRaw(raw),
				gateway.WithHooks(rt.hooks),
				gateway.WithRunner(rt.runner),
			}
			if rt.chats != nil {
				opts = append(opts, gateway.WithChatLog(rt.chats))
			} else {
				log.Warn().Msg("chat log disabled; history endpoints will be unavailable")
			}

			log.Info().
				Str("provider", rt.runner.Provider()).
				Str("history", cfg.Conversation.HistoryStore).
				Msg("conversation runner ready")

			srv := gateway.New(cfg, log, opts...)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "override gateway port")
	cmd.Flags().StringVar(&bind, "bind", "", "override bind mode (loopback, lan, custom)")

	return cmd
}

// openLogger builds the root logger from the logging section, writing JSON
// to the configured file as well as the console.
func openLogger(cfg config.LoggingConfig, level string) (*logging.Logger, func() error, error) {
	if level == "" {
		level = cfg.Level
	}
	l, closer, err := logging.Open(logging.Options{
		Level:        level,
		ConsoleStyle: cfg.ConsoleStyle,
		File:         cfg.File,
	})
	if err != nil {
		return nil, nil, err
	}
	return l, closer.Close, nil
}
