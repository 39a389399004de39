package cli

import (
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Config holds runtime settings for the hiho CLI.
//
// Precedence: built-in defaults, then the JSON file named by -c/-config,
// then command-line flags.
type Config struct {
	DataDir      string
	VaultFile    string
	LogLevel     string
	ClipboardTTL time.Duration
}

// jsonConfig is the on-disk shape of Config.
type jsonConfig struct {
	DataDir             *string `json:"data_dir"`
	VaultFile           *string `json:"vault_file"`
	LogLevel            *string `json:"log_level"`
	ClipboardTTLSeconds *int    `json:"clipboard_ttl_seconds"`
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.VaultFile = "vault.enc"
	c.LogLevel = "warn"
	c.ClipboardTTL = 30 * time.Second
}

// VaultPath is the vault file location; a relative VaultFile is resolved
// against DataDir.
func (c *Config) VaultPath() string {
	if filepath.IsAbs(c.VaultFile) {
		return c.VaultFile
	}
	return filepath.Join(c.DataDir, c.VaultFile)
}

func (c *Config) parseJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "cannot read config file")
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return errors.Wrapf(err, "cannot parse config file %s", path)
	}

	if jc.DataDir != nil {
		c.DataDir = *jc.DataDir
	}
	if jc.VaultFile != nil {
		c.VaultFile = *jc.VaultFile
	}
	if jc.LogLevel != nil {
		c.LogLevel = *jc.LogLevel
	}
	if jc.ClipboardTTLSeconds != nil {
		c.ClipboardTTL = time.Duration(*jc.ClipboardTTLSeconds) * time.Second
	}
	return nil
}

// LoadConfig builds a Config from defaults, an optional JSON file and the
// global flags at the front of args. It returns the remaining arguments,
// starting with the command name.
//
// Global flags:
//
//	-c, -config string   JSON config file
//	-d string            data directory (vault, session markers, auto-lock config)
//	-log-level string    panic|fatal|error|warn|info|debug|trace
func LoadConfig(args []string, stderr io.Writer) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	var configPath, dataDir, logLevel string
	fs := flag.NewFlagSet("hiho", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "path to JSON config file")
	fs.StringVar(&configPath, "c", "", "path to JSON config file (short)")
	fs.StringVar(&dataDir, "d", "", "data directory")
	fs.StringVar(&logLevel, "log-level", "", "log level")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if configPath != "" {
		if err := cfg.parseJSON(configPath); err != nil {
			return nil, nil, err
		}
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, fs.Args(), nil
}
