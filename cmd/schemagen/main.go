// Command schemagen generates a JSON-LD structured-data document for a
// content context using the built-in providers and a YAML content
// fixture. It is the reference wiring of the full pipeline: registries,
// cache, validator, dispatcher, manager.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/builtnorth/schemagraph/cache"
	"github.com/builtnorth/schemagraph/config"
	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/hook"
	"github.com/builtnorth/schemagraph/manager"
	"github.com/builtnorth/schemagraph/metric"
	"github.com/builtnorth/schemagraph/natsclient"
	"github.com/builtnorth/schemagraph/provider"
	"github.com/builtnorth/schemagraph/providers"
	"github.com/builtnorth/schemagraph/schematype"
	"github.com/builtnorth/schemagraph/validate"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "schemagen"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("schemagen failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("%s %s\n", appName, Version)
		return nil
	}

	cfg := config.Default()
	if cli.ConfigPath != "" {
		loaded, err := config.Load(cli.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if cli.Validate {
		fmt.Println("configuration OK")
		return nil
	}

	logLevel := cfg.Logging.Level
	if cli.LogLevel != "" {
		logLevel = cli.LogLevel
	}
	logFormat := cfg.Logging.Format
	if cli.LogFormat != "" {
		logFormat = cli.LogFormat
	}
	logger := setupLogger(logLevel, logFormat)
	slog.SetDefault(logger)

	c, err := parseContext(cli.Context)
	if err != nil {
		return err
	}

	src, err := buildSource(cli, cfg)
	if err != nil {
		return err
	}

	m, err := buildManager(cfg, src, logger)
	if err != nil {
		return err
	}

	g, err := m.GenerateGraph(context.Background(), c, nil)
	if err != nil {
		return err
	}
	if g.Len() == 0 {
		logger.Warn("no pieces generated", "context", c.Key())
		return nil
	}

	data, err := g.ToJSON()
	if err != nil {
		return err
	}

	if cli.Script {
		fmt.Printf("<script type=\"application/ld+json\">\n%s\n</script>\n", data)
	} else {
		fmt.Printf("%s\n", data)
	}

	report := m.Report()
	logger.Info("generation complete",
		"pass", report.PassID,
		"pieces", report.PiecesGenerated,
		"validation_errors", report.ValidationErrors,
		"warnings", report.Warnings)

	return nil
}

// buildSource loads the fixture or falls back to the configured site
// identity alone.
func buildSource(cli *CLIConfig, cfg *config.Config) (*content.StaticSource, error) {
	if cli.FixturePath != "" {
		return loadFixture(cli.FixturePath)
	}
	if cfg.Site.Name == "" || cfg.Site.URL == "" {
		return nil, fmt.Errorf("no fixture given and config has no site identity")
	}
	return content.NewStaticSource(cfg.Site.Name, cfg.Site.Description, cfg.Site.URL), nil
}

// buildManager wires the full stack: dispatcher, registries, cache,
// metrics, validator, manager.
func buildManager(cfg *config.Config, src content.Source, logger *slog.Logger) (*manager.Manager, error) {
	dispatcher := hook.NewRegistry()

	registry := provider.NewRegistry(dispatcher)
	if err := providers.Register(registry, src); err != nil {
		return nil, err
	}

	types := schematype.NewRegistry()
	providers.RegisterTypes(types)

	var layered *cache.Layered
	if cfg.Cache.Enabled {
		store, err := buildStore(cfg, logger)
		if err != nil {
			return nil, err
		}
		layered, err = cache.NewLayered(store,
			cache.WithNamespace(cfg.Cache.Namespace),
			cache.WithDefaultTTL(cfg.Cache.DefaultTTL.Std()),
			cache.WithDispatcher(dispatcher),
			cache.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
	}

	return manager.New(manager.Config{
		Providers:  registry,
		Types:      types,
		Validator:  validate.New(types),
		Cache:      layered,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metric.NewMetrics(),
	})
}

// buildStore creates the configured cache backing store.
func buildStore(cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.Cache.Store != config.StoreNATS {
		return cache.NewMemoryStore(), nil
	}

	client, err := natsclient.NewClient(cfg.Cache.NATS.URL, natsclient.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	bucket, err := client.KeyValueBucket(ctx, cfg.Cache.NATS.Bucket)
	if err != nil {
		return nil, err
	}
	return cache.NewKVStore(bucket)
}
