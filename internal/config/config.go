// Package config loads the optional tempnotes TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rcliao/tempnotes/internal/crypto"
)

const (
	// EnvConfig overrides the configuration file path.
	EnvConfig = "TEMPNOTES_CONFIG"
	// EnvDB overrides the database path.
	EnvDB = "TEMPNOTES_DB"

	dirName  = ".tempnotes"
	fileName = "config.toml"
	dbName   = "tempnotes.db"
)

// Config is the on-disk configuration.
type Config struct {
	DBPath          string `toml:"db_path" json:"db_path"`
	KDF             string `toml:"kdf" json:"kdf"`
	Iterations      int    `toml:"iterations" json:"iterations"`
	ArgonMemoryKiB  uint32 `toml:"argon_memory_kib" json:"argon_memory_kib"`
	ArgonThreads    uint8  `toml:"argon_threads" json:"argon_threads"`
	AutosaveDelayMS int    `toml:"autosave_delay_ms" json:"autosave_delay_ms"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		KDF:             crypto.KDFPBKDF2,
		Iterations:      crypto.DefaultIterations,
		ArgonMemoryKiB:  crypto.DefaultArgonMemory,
		ArgonThreads:    crypto.DefaultArgonThreads,
		AutosaveDelayMS: 250,
	}
}

// Dir returns ~/.tempnotes.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName)
}

// Path returns $TEMPNOTES_CONFIG or ~/.tempnotes/config.toml.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(Dir(), fileName)
}

// Load reads the file at path over the defaults. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks the key-derivation settings and the autosave delay.
func (c Config) Validate() error {
	if _, err := c.CryptoParams(); err != nil {
		return err
	}
	if c.AutosaveDelayMS < 0 {
		return fmt.Errorf("autosave_delay_ms must not be negative")
	}
	return nil
}

// CryptoParams returns the key-derivation parameters for new envelopes.
func (c Config) CryptoParams() (crypto.Params, error) {
	var p crypto.Params
	switch c.KDF {
	case crypto.KDFArgon2id:
		p = crypto.Params{KDF: crypto.KDFArgon2id, Iterations: c.Iterations, MemoryKiB: c.ArgonMemoryKiB, Threads: c.ArgonThreads}
		if p.Iterations == 0 {
			p.Iterations = crypto.DefaultArgonTime
		}
	case crypto.KDFPBKDF2, "":
		p = crypto.Params{KDF: crypto.KDFPBKDF2, Iterations: c.Iterations}
		if p.Iterations == 0 {
			p.Iterations = crypto.DefaultIterations
		}
	default:
		return p, fmt.Errorf("kdf %q: want %s or %s", c.KDF, crypto.KDFPBKDF2, crypto.KDFArgon2id)
	}
	return p, p.Validate()
}

// AutosaveDelay returns the draft autosave debounce.
func (c Config) AutosaveDelay() time.Duration {
	return time.Duration(c.AutosaveDelayMS) * time.Millisecond
}

// ResolveDBPath resolves the database path: flag, then $TEMPNOTES_DB, then the
// config file, then ~/.tempnotes/tempnotes.db.
func (c Config) ResolveDBPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvDB); env != "" {
		return env
	}
	if c.DBPath != "" {
		return expandHome(c.DBPath)
	}
	return filepath.Join(Dir(), dbName)
}

func expandHome(p string) string {
	if len(p) >= 2 && p[0] == '~' && (p[1] == '/' || p[1] == filepath.Separator) {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
