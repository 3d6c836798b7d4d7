package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/builtnorth/schemagraph/content"
)

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	ConfigPath  string
	FixturePath string
	Context     string
	LogLevel    string
	LogFormat   string
	Script      bool
	Validate    bool
	ShowVersion bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("SCHEMAGEN_CONFIG", ""),
		"Path to configuration file (env: SCHEMAGEN_CONFIG)")

	flag.StringVar(&cfg.FixturePath, "fixture",
		getEnv("SCHEMAGEN_FIXTURE", ""),
		"Path to YAML content fixture (env: SCHEMAGEN_FIXTURE)")

	flag.StringVar(&cfg.Context, "context", "home",
		"Generation context: home, singular:<id>, taxonomy:<name>:<id>, archive, search")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SCHEMAGEN_LOG_LEVEL", ""),
		"Log level: debug, info, warn, error (env: SCHEMAGEN_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SCHEMAGEN_LOG_FORMAT", ""),
		"Log format: json, text (env: SCHEMAGEN_LOG_FORMAT)")

	flag.BoolVar(&cfg.Script, "script", false,
		"Wrap the output in a <script type=\"application/ld+json\"> tag")

	flag.BoolVar(&cfg.Validate, "validate", false,
		"Validate the configuration and exit")

	flag.BoolVar(&cfg.ShowVersion, "version", false,
		"Print version and exit")

	flag.Parse()
	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// parseContext turns the -context flag value into a generation context.
func parseContext(spec string) (*content.Context, error) {
	parts := strings.Split(spec, ":")

	switch parts[0] {
	case "home", "archive", "search", "notfound":
		if len(parts) != 1 {
			return nil, fmt.Errorf("context %q takes no arguments", parts[0])
		}
		return content.NewContext(content.ContextKind(parts[0])), nil

	case "singular":
		if len(parts) != 2 {
			return nil, fmt.Errorf("singular context needs an id, e.g. singular:42")
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid object id %q: %w", parts[1], err)
		}
		c := content.NewContext(content.KindSingular)
		c.ObjectID = id
		return c, nil

	case "taxonomy":
		if len(parts) != 3 {
			return nil, fmt.Errorf("taxonomy context needs a name and id, e.g. taxonomy:category:7")
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid term id %q: %w", parts[2], err)
		}
		c := content.NewContext(content.KindTaxonomy)
		c.Taxonomy = parts[1]
		c.TermID = id
		return c, nil

	default:
		return nil, fmt.Errorf("unknown context kind %q", parts[0])
	}
}
