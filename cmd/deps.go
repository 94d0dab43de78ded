package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lumina-learn/lumina/internal/config"
	"github.com/lumina-learn/lumina/internal/insight"
	"github.com/lumina-learn/lumina/internal/llm"
	"github.com/lumina-learn/lumina/internal/logging"
	"github.com/lumina-learn/lumina/internal/metrics"
	"github.com/lumina-learn/lumina/internal/roster"
	"github.com/lumina-learn/lumina/internal/store"
)

// runtimeOpts tweaks how openRuntime wires things for a command.
type runtimeOpts struct {
	// logToFile sends logs to a file so they don't corrupt the TUI.
	logToFile bool
	// metrics instruments insight generation when non-nil.
	metrics *metrics.Metrics
	// enrichOnLoad lets the restored active student start an insight
	// request. Only long-running commands set it; short ones would cancel
	// the request on exit.
	enrichOnLoad bool
	// skipLoad leaves the roster unrestored.
	skipLoad bool
}

// runtime bundles everything a command needs. Close releases it.
type runtime struct {
	cfg      config.Config
	logger   *zap.Logger
	db       *store.Store
	redis    *redis.Client
	persist  roster.Persistence
	insights roster.InsightProvider
	students *roster.Store
}

// openRuntime loads config, opens storage, builds the insight provider and
// restores the roster.
func openRuntime(cmd *cobra.Command, opts runtimeOpts) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	if opts.logToFile && cfg.Log.File == "" {
		dir, err := store.DataDir()
		if err != nil {
			return nil, err
		}
		cfg.Log.File = filepath.Join(dir, "lumina.log")
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, logger: logger}

	dbPath, err := resolveDBPath(cmd, cfg.DB)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	rt.db, err = store.Open(dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	switch cfg.StoreBackend {
	case config.BackendRedis:
		rt.redis, err = store.NewRedis(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.persist = store.NewRedisKV(rt.redis, cfg.Redis.Prefix)
	case config.BackendMemory:
		rt.persist = roster.NewMemoryPersistence()
	default:
		rt.persist = rt.db.KV()
	}

	if cfg.LLM.Enabled() {
		llmCfg := cfg.LLM
		if llmCfg.Provider == llm.ProviderMock && llmCfg.MockResponse == "" {
			llmCfg.MockResponse = string(insight.SampleResponse)
		}
		provider, err := llm.NewProvider(ctx, llmCfg, rt.db.EventRepo(), logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		genCfg := insight.DefaultConfig()
		genCfg.Timeout = llmCfg.Timeout
		rt.insights = insight.WithMetrics(insight.New(provider, genCfg), opts.metrics)
	} else {
		logger.Info("no LLM provider configured, AI insights disabled")
	}

	rt.students = newRoster(rt.persist, rt.insights, logger, cfg, opts)
	if opts.skipLoad {
		return rt, nil
	}
	if err := rt.students.Load(ctx); err != nil {
		logger.Warn("restore roster", zap.Error(err))
	}
	return rt, nil
}

func newRoster(persist roster.Persistence, insights roster.InsightProvider, logger *zap.Logger, cfg config.Config, opts runtimeOpts) *roster.Store {
	storeOpts := []roster.Option{roster.WithRefreshDelay(cfg.RefreshDelay)}
	if !opts.enrichOnLoad {
		storeOpts = append(storeOpts, roster.WithoutLoadEnrichment())
	}
	return roster.New(persist, insights, logger, storeOpts...)
}

// Close waits for background enrichment and releases storage.
func (rt *runtime) Close() {
	if rt.students != nil {
		rt.students.Close()
	}
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.db != nil {
		_ = rt.db.Close()
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}

// settle waits for enrichment started by a mutation so its result is
// persisted before the process exits.
func (rt *runtime) settle() {
	rt.students.Wait()
}

// lookupStudent resolves an id argument, defaulting to the active student.
func (rt *runtime) lookupStudent(args []string) (roster.Student, error) {
	if len(args) > 0 {
		st, ok := rt.students.Student(args[0])
		if !ok {
			return roster.Student{}, fmt.Errorf("%s: %w", args[0], roster.ErrNotFound)
		}
		return st, nil
	}
	st, ok := rt.students.Active()
	if !ok {
		return roster.Student{}, errors.New("no active student; pass an id or run `lumina roster select`")
	}
	return st, nil
}
