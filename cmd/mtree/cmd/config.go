package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/soomrack/MR2024-sub003/mhash/mhblake3"
	"github.com/soomrack/MR2024-sub003/mhash/mhsha256"
	"github.com/soomrack/MR2024-sub003/mhash/mhsha3"
	"github.com/soomrack/MR2024-sub003/mhash/mhsimd"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	SplitChunks = "chunks"
	SplitLines  = "lines"
)

const (
	DefaultChunkSize = "4K"
	DefaultLogLevel  = "info"

	// Chunks larger than this are almost certainly a typo.
	MaxChunkSize = 1 << 30

	envPrefix = "MTREE"
)

var hashers = map[string]mhash.Hasher{
	mhsha256.Name: mhsha256.Hasher{},
	mhsimd.Name:   mhsimd.Hasher{},
	mhblake3.Name: mhblake3.Hasher{},
	mhsha3.Name:   mhsha3.Hasher{},
}

func hasherNames() []string {
	names := make([]string, 0, len(hashers))
	for name := range hashers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func lookupHasher(name string) (mhash.Hasher, error) {
	h, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("unknown hasher %q; expected one of: %s", name, strings.Join(hasherNames(), ", "))
	}
	return h, nil
}

type Config struct {
	Hasher    string  `mapstructure:"hasher"`
	Split     string  `mapstructure:"split"`
	ChunkSize string  `mapstructure:"chunk-size"`
	Parity    float64 `mapstructure:"parity"`
	Workers   int     `mapstructure:"workers"`
	DB        string  `mapstructure:"db"`
	LogLevel  string  `mapstructure:"log-level"`
}

func DefaultConfig() *Config {
	return &Config{
		Hasher:    mhsha256.Name,
		Split:     SplitChunks,
		ChunkSize: DefaultChunkSize,
		Workers:   runtime.NumCPU(),
		DB:        defaultDBPath(),
		LogLevel:  DefaultLogLevel,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".mtree", "records.db")
}

func (cfg *Config) Validate() error {
	if _, err := lookupHasher(cfg.Hasher); err != nil {
		return err
	}

	switch cfg.Split {
	case SplitChunks, SplitLines:
	default:
		return fmt.Errorf("invalid `split`; expected: %q or %q, given: %q", SplitChunks, SplitLines, cfg.Split)
	}

	if _, err := cfg.chunkSizeBytes(); err != nil {
		return err
	}

	if cfg.Parity < 0 {
		return fmt.Errorf("invalid `parity`; expected: >= 0, given: %g", cfg.Parity)
	}
	if cfg.Parity > 0 && cfg.Split != SplitChunks {
		return fmt.Errorf("invalid `parity`; erasure coding requires split %q, given: %q", SplitChunks, cfg.Split)
	}

	if cfg.Workers < 1 {
		return fmt.Errorf("invalid `workers`; expected: >= 1, given: %d", cfg.Workers)
	}

	if cfg.DB == "" {
		return fmt.Errorf("invalid `db`; expected a path")
	}

	if _, err := cfg.logLevel(); err != nil {
		return err
	}

	return nil
}

func (cfg *Config) chunkSizeBytes() (int, error) {
	n, err := bytefmt.ToBytes(cfg.ChunkSize)
	if err != nil {
		return 0, fmt.Errorf("invalid `chunk-size` %q: %w", cfg.ChunkSize, err)
	}
	if n == 0 || n > MaxChunkSize {
		return 0, fmt.Errorf("invalid `chunk-size`; expected: between 1B and %s, given: %s",
			bytefmt.ByteSize(MaxChunkSize), cfg.ChunkSize)
	}
	return int(n), nil
}

func (cfg *Config) logLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid `log-level` %q: %w", cfg.LogLevel, err)
	}
	return lvl, nil
}

func setFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("config", "",
		"Path to a configuration file (yaml, toml or json)")

	flags.String("hasher", cfg.Hasher,
		"Hash algorithm, one of: "+strings.Join(hasherNames(), ", "))

	flags.String("split", cfg.Split,
		`How inputs are divided into blocks: "chunks" or "lines"`)

	flags.String("chunk-size", cfg.ChunkSize,
		"Block size when splitting into chunks, e.g. 512B, 4K or 1M")

	flags.Float64("parity", cfg.Parity,
		"Ratio of Reed-Solomon parity chunks to data chunks; 0 disables erasure coding")

	flags.IntP("workers", "j", cfg.Workers,
		"Maximum number of goroutines hashing concurrently")

	flags.String("db", cfg.DB,
		"Path to the SQLite database of recorded roots")

	flags.String("log-level", cfg.LogLevel,
		"Minimum log level: debug, info, warn or error")
}

// loadConfig resolves the configuration from, in decreasing priority,
// command line flags, MTREE_* environment variables,
// the configuration file, and the flag defaults.
func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	vip := viper.New()

	vip.SetEnvPrefix(envPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()

	if err := vip.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := vip.GetString("config"); path != "" {
		vip.SetConfigFile(path)
		if err := vip.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := vip.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
