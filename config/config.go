package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/revelaction/goldtree/gold"
)

type Config struct {
	// Corpus is a directory or a CoNLL-U file
	Corpus string `yaml:"corpus"`

	// DB is the sqlite database path
	DB string `yaml:"db"`

	Addr string `yaml:"addr"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Gold Gold `yaml:"gold"`
}

// Gold holds the gold merge defaults by name, as they appear in files and
// the environment.
type Gold struct {
	Mode            string `yaml:"mode"`
	LabelMode       string `yaml:"label_mode"`
	TokenMode       string `yaml:"token_mode"`
	SentCount       string `yaml:"sent_count"`
	IncludeComments bool   `yaml:"include_comments"`
	MarkMisc        bool   `yaml:"mark_misc"`
	FixOrphanHeads  bool   `yaml:"fix_orphan_heads"`
}

func defaults() Config {
	o := gold.DefaultOptions()
	return Config{
		Addr:      ":8090",
		LogLevel:  "info",
		LogFormat: "text",
		Gold: Gold{
			Mode:            o.Mode.String(),
			LabelMode:       o.LabelMode.String(),
			TokenMode:       o.TokenMode.String(),
			SentCount:       o.SentCountMode.String(),
			IncludeComments: o.IncludeComments,
			MarkMisc:        o.MarkMisc,
			FixOrphanHeads:  o.FixOrphanHeads,
		},
	}
}

// Load returns the defaults overridden by the GOLDTREE_* environment.
func Load() Config {
	cfg := defaults()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads the YAML file at path over the defaults. The environment
// still takes precedence over the file.
func LoadFile(path string) (Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Corpus = envOr("GOLDTREE_CORPUS", c.Corpus)
	c.DB = envOr("GOLDTREE_DB", c.DB)
	c.Addr = envOr("GOLDTREE_ADDR", c.Addr)
	c.LogLevel = envOr("GOLDTREE_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("GOLDTREE_LOG_FORMAT", c.LogFormat)

	c.Gold.Mode = envOr("GOLDTREE_GOLD_MODE", c.Gold.Mode)
	c.Gold.LabelMode = envOr("GOLDTREE_GOLD_LABEL_MODE", c.Gold.LabelMode)
	c.Gold.TokenMode = envOr("GOLDTREE_GOLD_TOKEN_MODE", c.Gold.TokenMode)
	c.Gold.SentCount = envOr("GOLDTREE_GOLD_SENT_COUNT", c.Gold.SentCount)
	c.Gold.IncludeComments = envBool("GOLDTREE_GOLD_INCLUDE_COMMENTS", c.Gold.IncludeComments)
	c.Gold.MarkMisc = envBool("GOLDTREE_GOLD_MARK_MISC", c.Gold.MarkMisc)
	c.Gold.FixOrphanHeads = envBool("GOLDTREE_GOLD_FIX_ORPHAN_HEADS", c.Gold.FixOrphanHeads)
}

func (c Config) Validate() error {
	if c.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			return fmt.Errorf("config: addr %q: %w", c.Addr, err)
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format %q, allowed values are text, json", c.LogFormat)
	}

	if _, err := c.GoldOptions(); err != nil {
		return fmt.Errorf("config: gold: %w", err)
	}

	return nil
}

func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// GoldOptions parses the gold defaults.
func (c Config) GoldOptions() (gold.Options, error) {
	opts := gold.Options{
		IncludeComments: c.Gold.IncludeComments,
		MarkMisc:        c.Gold.MarkMisc,
		FixOrphanHeads:  c.Gold.FixOrphanHeads,
	}

	var err error
	if opts.Mode, err = gold.ParseMode(c.Gold.Mode); err != nil {
		return gold.Options{}, err
	}
	if opts.LabelMode, err = gold.ParseSide(c.Gold.LabelMode); err != nil {
		return gold.Options{}, err
	}
	if opts.TokenMode, err = gold.ParseSide(c.Gold.TokenMode); err != nil {
		return gold.Options{}, err
	}
	if opts.SentCountMode, err = gold.ParseSentCountMode(c.Gold.SentCount); err != nil {
		return gold.Options{}, err
	}

	return opts, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
