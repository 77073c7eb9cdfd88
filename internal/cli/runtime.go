package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/soyeahso/moodai/internal/agent"
	"github.com/soyeahso/moodai/internal/config"
	"github.com/soyeahso/moodai/internal/hooks"
	"github.com/soyeahso/moodai/internal/llm"
	"github.com/soyeahso/moodai/internal/store"
)

// runtime holds the components shared by serve and the local chat commands.
type runtime struct {
	cfg     config.Config
	runner  *agent.Runner
	chats   *store.ChatStore
	hooks   *hooks.Manager
	closers []io.Closer
}

// loadConfig reads and validates the config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		return cfg, err
	}

	issues := config.Validate(&cfg)
	if len(issues) > 0 {
		for _, issue := range issues {
			log.Error().Str("path", issue.Path).Msg(issue.Message)
		}
		return cfg, fmt.Errorf("config validation failed with %d issue(s)", len(issues))
	}
	return cfg, nil
}

// newRuntime wires history, the chat store, hooks and the runner from cfg.
// Callers must call close when done.
func newRuntime(ctx context.Context, cfg config.Config) (*runtime, error) {
	rt := &runtime{cfg: cfg, hooks: hooks.NewManager(log)}
	if n := rt.hooks.RegisterConfig(cfg.Hooks); n > 0 {
		log.Info().Int("hooks", n).Strs("events", rt.hooks.Events()).Msg("registered hooks")
	}

	var history agent.History
	switch cfg.Conversation.HistoryStore {
	case "redis":
		rh, err := store.NewRedisHistory(ctx, cfg.Conversation.RedisURL, cfg.Conversation.MaxHistory)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, rh)
		history = rh
		log.Info().Int("max", rh.Max()).Msg("using Redis conversation history")
	default:
		mh := agent.NewMemoryHistory(cfg.Conversation.MaxHistory)
		history = mh
		log.Debug().Int("max", mh.Max()).Msg("using in-memory conversation history")
	}

	var opts []agent.RunnerOption
	if cfg.Store.Driver == "sqlite" {
		dbPath := paths.DatabasePath(cfg.Store)
		db, err := store.Open(dbPath, log)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("opening database: %w", err)
		}
		rt.closers = append(rt.closers, db)
		rt.chats = store.NewChatStore(db)
		opts = append(opts, agent.WithRecorder(rt.chats))
		log.Info().Str("path", dbPath).Msg("using SQLite chat store")
	}

	opts = append(opts, agent.WithHooks(rt.hooks))

	gen := llm.NewClientFromConfig(cfg.LLM, log)
	rt.runner = agent.NewRunner(agent.NewRunnerConfig(cfg), gen, history, log, opts...)
	return rt, nil
}

// hookDrainTimeout bounds how long close waits for dispatched hooks.
const hookDrainTimeout = 10 * time.Second

// close waits for in-flight hooks, then releases every opened resource in
// reverse order.
func (rt *runtime) close() error {
	var errs []error
	ctx, cancel := context.WithTimeout(context.Background(), hookDrainTimeout)
	defer cancel()
	if err := rt.hooks.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("hooks still running at shutdown")
	}

	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i].Close())
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// openChatStore opens only the chat log, for the history commands.
func openChatStore(cfg config.Config) (*store.ChatStore, io.Closer, error) {
	if cfg.Store.Driver != "sqlite" {
		return nil, nil, fmt.Errorf("chat log is disabled (store.driver=%q)", cfg.Store.Driver)
	}
	db, err := store.Open(paths.DatabasePath(cfg.Store), log)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return store.NewChatStore(db), db, nil
}
