package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seilorhq/faithagent/pkg/actions"
	"github.com/seilorhq/faithagent/pkg/agent"
	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/config"
	"github.com/seilorhq/faithagent/pkg/evaluator"
	"github.com/seilorhq/faithagent/pkg/learn"
	"github.com/seilorhq/faithagent/pkg/logger"
	"github.com/seilorhq/faithagent/pkg/memory"
	"github.com/seilorhq/faithagent/pkg/providers"
	"github.com/seilorhq/faithagent/pkg/reply"
	"github.com/seilorhq/faithagent/pkg/search"
	"github.com/seilorhq/faithagent/pkg/state"
	"github.com/seilorhq/faithagent/pkg/trainer"
	"github.com/seilorhq/faithagent/pkg/usage"
	"github.com/seilorhq/faithagent/pkg/web3"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if cfg.Logging.Debug {
		logger.SetLevel(logger.DEBUG)
	}
	if cfg.Logging.FileEnabled {
		if err := logger.EnableFileLogging(cfg.Logging.FilePath, cfg.Logging.MaxSizeMB); err != nil {
			logger.WarnCF("main", "File logging unavailable",
				map[string]interface{}{"error": err.Error()})
		}
	}

	if err := run(cfg); err != nil && err != context.Canceled {
		logger.ErrorCF("main", "Agent exited with error",
			map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	usageStore := usage.NewStore(cfg.StoreDir())

	client, err := providers.NewClientFromConfig(cfg, usageStore)
	if err != nil {
		return fmt.Errorf("init generation client: %w", err)
	}
	embedder := providers.NewEmbedderFromConfig(cfg, usageStore)

	store, err := memory.NewStore(cfg.StorePath(), embedder, cfg.Evaluator.SimilarityThreshold)
	if err != nil {
		return fmt.Errorf("init memory store: %w", err)
	}
	defer store.Close()

	msgBus := bus.NewMessageBus()
	states := state.NewProvider(cfg, store)
	replies := reply.NewService(client)

	backend := web3.NewClient(cfg.Web3.BaseURL, cfg.Web3.ScoreBaseURL,
		cfg.Web3.SupportChainID, time.Duration(cfg.Web3.TimeoutSeconds)*time.Second)
	searcher := search.NewClient(cfg.Search.SerperAPIKey, cfg.Search.SerperAPIBase,
		time.Duration(cfg.Search.TimeoutSeconds)*time.Second)
	pipeline := learn.NewPipeline(cfg, client, searcher, states)

	registry := actions.NewRegistry()
	for _, action := range []actions.Action{
		actions.NewQueryPointsAction(backend),
		actions.NewOpenLootBoxAction(backend),
		actions.NewSendTokenAction(backend, client, replies),
		actions.NewSwapTokenAction(backend, client),
		actions.NewScoreQueryAction(backend, client),
		actions.NewAutoTrainingAction(pipeline, cfg.Search.SerperAPIKey != ""),
	} {
		if err := registry.Register(action); err != nil {
			return fmt.Errorf("register %s: %w", action.Name(), err)
		}
	}

	dispatcher := actions.NewDispatcher(registry)
	evaluators := evaluator.NewScheduler(evaluator.NewFactEvaluator(cfg, client, store))
	core := agent.New(cfg, msgBus, store, states, dispatcher, evaluators)

	if cfg.Trainer.Enabled {
		t := trainer.New(cfg.Trainer.Cron, pipeline, msgBus, store, core.AgentID())
		if t.Start(ctx) {
			defer t.Stop()
		}
	}

	logger.InfoCF("main", "faithagent starting",
		map[string]interface{}{"agent": cfg.Agent.Name, "backend": cfg.Providers.Generation.Backend})

	err = core.Run(ctx)

	records := usageStore.Query(usage.Filter{DayKey: usageStore.TodayKey()})
	agg := usage.AggregateRecords(records)
	logger.InfoCF("main", "Generation usage today",
		map[string]interface{}{"calls": agg.Calls, "total_tokens": agg.TotalTokens})

	return err
}
