// Package config loads the YAML configuration shared by epcis-hash and
// epcis-hashd.
//
// The file is named by the --config flag or, failing that, by the
// EPCIS_HASH_CONFIG environment variable. With neither set the defaults
// apply: strict mode, no namespace context, no pre-hash archive.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"xdao.co/epcis/canon"
	"xdao.co/epcis/compliance"
	"xdao.co/epcis/storage"
	"xdao.co/epcis/storage/localfs"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "EPCIS_HASH_CONFIG"

// Write policies of a multi-directory store.
const (
	WriteFirst = "first"
	WriteAll   = "all"
)

type Config struct {
	// Mode is "strict" (default) or "lenient".
	Mode string `yaml:"mode"`

	// IncludeErrorDeclaration serializes errorDeclaration into the
	// pre-hash string.
	IncludeErrorDeclaration bool `yaml:"include_error_declaration"`

	// Context is the default namespace context: a string, a mapping of
	// prefix to URI, or a list of either.
	Context any `yaml:"context"`

	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
}

type ServerConfig struct {
	// Listen is the daemon's TCP address.
	Listen string `yaml:"listen"`

	// MaxMsgBytes caps gRPC message size in both directions.
	MaxMsgBytes int `yaml:"max_msg_bytes"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is json or text.
	LogFormat string `yaml:"log_format"`
}

// StoreConfig describes where pre-hash strings are archived. Reads try the
// directories in order. With write_policy "first" only the first directory
// is written; with "all" every directory receives every object.
type StoreConfig struct {
	WritePolicy string   `yaml:"write_policy"`
	Dirs        []string `yaml:"dirs"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Mode: compliance.Strict.String(),
		Server: ServerConfig{
			Listen:      "127.0.0.1:7687",
			MaxMsgBytes: 4 << 20,
			LogLevel:    "info",
			LogFormat:   "json",
		},
		Store: StoreConfig{WritePolicy: WriteFirst},
	}
}

// Load reads path, or the file named by EPCIS_HASH_CONFIG when path is
// empty. With neither, it returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates one config file. Unset fields keep their
// defaults; unknown fields are rejected.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.resolvePaths(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// resolvePaths makes relative store directories relative to the config
// file and expands environment variables.
func (c *Config) resolvePaths(base string) {
	for i, d := range c.Store.Dirs {
		d = os.ExpandEnv(d)
		if d != "" && !filepath.IsAbs(d) {
			d = filepath.Join(base, d)
		}
		c.Store.Dirs[i] = d
	}
}

func (c *Config) Validate() error {
	var errs []error

	if _, err := compliance.ParseMode(c.Mode); err != nil {
		errs = append(errs, fmt.Errorf("mode: %w", err))
	}
	if c.Server.MaxMsgBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_msg_bytes must not be negative"))
	}
	if _, err := parseLevel(c.Server.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Server.LogFormat {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Errorf("server.log_format must be json or text"))
	}
	switch c.Store.WritePolicy {
	case "", WriteFirst, WriteAll:
	default:
		errs = append(errs, fmt.Errorf("store.write_policy must be %q or %q", WriteFirst, WriteAll))
	}
	for i, d := range c.Store.Dirs {
		if strings.TrimSpace(d) == "" {
			errs = append(errs, fmt.Errorf("store.dirs[%d] is empty", i))
		}
	}
	if err := validateContext(c.Context); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func validateContext(v any) error {
	switch t := v.(type) {
	case nil, string:
		return nil
	case map[string]any:
		for k, uri := range t {
			if _, ok := uri.(string); !ok {
				return fmt.Errorf("context.%s must be a URI string", k)
			}
		}
		return nil
	case []any:
		for i, item := range t {
			if err := validateContext(item); err != nil {
				return fmt.Errorf("context[%d]: %w", i, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("context must be a string, mapping or list")
	}
}

// Options returns the canonicalization options the config selects.
func (c *Config) Options() canon.Options {
	mode, _ := compliance.ParseMode(c.Mode)
	return canon.Options{Mode: mode, IncludeErrorDeclaration: c.IncludeErrorDeclaration}
}

// OpenArchive opens the configured pre-hash archive, or returns nil when no
// directory is configured.
func (c *Config) OpenArchive() (*storage.Archive, error) {
	if len(c.Store.Dirs) == 0 {
		return nil, nil
	}
	var named []storage.NamedCAS
	for _, d := range c.Store.Dirs {
		cas, err := localfs.New(d)
		if err != nil {
			return nil, err
		}
		named = append(named, storage.NamedCAS{Name: d, CAS: cas})
	}
	if len(named) == 1 {
		return &storage.Archive{CAS: named[0].CAS}, nil
	}
	if c.Store.WritePolicy == WriteAll {
		return &storage.Archive{CAS: storage.ReplicatingCAS{Backends: named}}, nil
	}
	adapters := make([]storage.CAS, len(named))
	for i, n := range named {
		adapters[i] = n.CAS
	}
	return &storage.Archive{CAS: storage.MultiCAS{Adapters: adapters}}, nil
}

// Logger builds the daemon logger.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Server.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.Server.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("server.log_level: %w", err)
	}
	return l, nil
}
