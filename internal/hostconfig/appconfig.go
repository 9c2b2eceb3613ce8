package hostconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// AppConfig is bnshell's persisted application configuration, covering the
// default numeric width/shift a new script session starts with, the
// interpreter's execution limits, and the toggles for the optional API
// server and TUI/GUI front-ends.
type AppConfig struct {
	Numeric struct {
		DefaultWidth  int    `toml:"default_width"` // 128, 192, 256, 512, or 1024
		DefaultShift  int    `toml:"default_shift"`
		PrintRadix    string `toml:"print_radix"` // dec, hex, bin
		PrintFraction int    `toml:"print_fraction_digits"`
	} `toml:"numeric"`

	Execution struct {
		MaxOpcodes     uint64 `toml:"max_opcodes"`
		EnableTrace    bool   `toml:"enable_trace"`
		EnableStats    bool   `toml:"enable_stats"`
		SingleInstance bool   `toml:"single_instance"`
	} `toml:"execution"`

	REPL struct {
		HistorySize int  `toml:"history_size"`
		ShowTypes   bool `toml:"show_types"`
	} `toml:"repl"`

	API struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"api"`

	Debugger struct {
		TUIEnabled      bool `toml:"tui_enabled"`
		GUIEnabled      bool `toml:"gui_enabled"`
		ShowBytecode    bool `toml:"show_bytecode"`
		BreakpointLimit int  `toml:"breakpoint_limit"`
	} `toml:"debugger"`
}

// DefaultAppConfig returns a configuration with bnshell's built-in
// defaults.
func DefaultAppConfig() *AppConfig {
	cfg := &AppConfig{}

	cfg.Numeric.DefaultWidth = 128
	cfg.Numeric.DefaultShift = 126
	cfg.Numeric.PrintRadix = "dec"
	cfg.Numeric.PrintFraction = 20

	cfg.Execution.MaxOpcodes = 10_000_000
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableStats = false
	cfg.Execution.SingleInstance = true

	cfg.REPL.HistorySize = 1000
	cfg.REPL.ShowTypes = true

	cfg.API.Enabled = false
	cfg.API.Addr = "127.0.0.1:8420"

	cfg.Debugger.TUIEnabled = true
	cfg.Debugger.GUIEnabled = false
	cfg.Debugger.ShowBytecode = true
	cfg.Debugger.BreakpointLimit = 256

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "bnshell")
	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "bnshell")
	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "config.toml")
}

// GetStateDir returns the platform-specific directory bnshell uses for
// its single-instance lock file and any session state.
func GetStateDir() string {
	switch runtime.GOOS {
	case "windows":
		dir := os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(dir, "bnshell")
	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		return filepath.Join(homeDir, ".local", "share", "bnshell")
	default:
		return "."
	}
}

// Load loads configuration from the default config file.
func Load() (*AppConfig, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the given path, falling back to
// defaults if the file doesn't exist.
func LoadFrom(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *AppConfig) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the given path.
func (c *AppConfig) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ScopeConfigTargets registers every AppConfig field reachable through the
// "scope.member = value;" grammar in scopeconfig.go, so a deployment can
// override one field without shipping a full TOML file.
func (c *AppConfig) ScopeConfigTargets(sc *ScopeConfig) {
	sc.Register("numeric", "default_width", func(v string) error {
		n, err := parseIntValue(v)
		if err != nil {
			return err
		}
		c.Numeric.DefaultWidth = n
		return nil
	})
	sc.Register("numeric", "default_shift", func(v string) error {
		n, err := parseIntValue(v)
		if err != nil {
			return err
		}
		c.Numeric.DefaultShift = n
		return nil
	})
	sc.Register("numeric", "print_radix", func(v string) error {
		c.Numeric.PrintRadix = v
		return nil
	})
	sc.Register("execution", "enable_trace", func(v string) error {
		c.Execution.EnableTrace = v == "true" || v == "1"
		return nil
	})
	sc.Register("execution", "single_instance", func(v string) error {
		c.Execution.SingleInstance = v == "true" || v == "1"
		return nil
	})
	sc.Register("api", "enabled", func(v string) error {
		c.API.Enabled = v == "true" || v == "1"
		return nil
	})
	sc.Register("api", "addr", func(v string) error {
		c.API.Addr = v
		return nil
	})
}

func parseIntValue(v string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", v)
	}
	return n, nil
}
