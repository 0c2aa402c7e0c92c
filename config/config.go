// Package config implements TOML-backed runtime configuration for the
// simulator, following the teacher's config package structure
// (defaults, Load/LoadFrom/Save/SaveTo, platform-specific config
// path) with fields renamed to this project's concerns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the simulator's runtime configuration.
type Config struct {
	// Execution settings
	Execution struct {
		MaxCycles uint64 `toml:"max_cycles" json:"maxCycles"`
		// LegacyBranchOffsets treats beq/bne/blez/bgtz immediates as
		// byte offsets (PC + 4 + (offset << 2)) instead of word-index
		// deltas, for source programs assembled against the
		// byte-offset convention spec.md §9's Open Question describes.
		// Off by default; the simulator's own assembler never emits
		// byte offsets.
		LegacyBranchOffsets bool `toml:"legacy_branch_offsets" json:"legacyBranchOffsets"`
		EnableTrace         bool `toml:"enable_trace" json:"enableTrace"`
		EnableStats         bool `toml:"enable_stats" json:"enableStats"`
	} `toml:"execution" json:"execution"`

	// Pipeline settings
	Pipeline struct {
		EnabledByDefault bool `toml:"enabled_by_default" json:"enabledByDefault"`
	} `toml:"pipeline" json:"pipeline"`

	// Debugger settings
	Debugger struct {
		HistorySize    int  `toml:"history_size" json:"historySize"`
		AutoSaveBreaks bool `toml:"auto_save_breakpoints" json:"autoSaveBreaks"`
		ShowSource     bool `toml:"show_source" json:"showSource"`
		ShowRegisters  bool `toml:"show_registers" json:"showRegisters"`
	} `toml:"debugger" json:"debugger"`

	// Display settings
	Display struct {
		ColorOutput   bool   `toml:"color_output" json:"colorOutput"`
		BytesPerLine  int    `toml:"bytes_per_line" json:"bytesPerLine"`
		DisasmContext int    `toml:"disasm_context" json:"disasmContext"`
		NumberFormat  string `toml:"number_format" json:"numberFormat"` // hex, dec, both
	} `toml:"display" json:"display"`

	// Console settings
	Console struct {
		// OutputBufferCap bounds how many bytes print_string/
		// print_character syscalls will accumulate before Console
		// starts discarding the oldest output, so a runaway program
		// cannot grow console output without bound.
		OutputBufferCap int `toml:"output_buffer_cap" json:"outputBufferCap"`
		// InputBufferCap is stored with the configuration only: it is
		// not applied to the machine's console, and console input has
		// no size bound.
		InputBufferCap int `toml:"input_buffer_cap" json:"inputBufferCap"`
	} `toml:"console" json:"console"`

	// Statistics settings
	Statistics struct {
		OutputFile     string `toml:"output_file" json:"outputFile"`
		Format         string `toml:"format" json:"format"` // json, csv
		CollectHotPath bool   `toml:"collect_hotpath" json:"collectHotPath"`
	} `toml:"statistics" json:"statistics"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 10_000_000
	cfg.Execution.LegacyBranchOffsets = false
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableStats = false

	cfg.Pipeline.EnabledByDefault = false

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.AutoSaveBreaks = true
	cfg.Debugger.ShowSource = true
	cfg.Debugger.ShowRegisters = true

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.DisasmContext = 5
	cfg.Display.NumberFormat = "hex"

	cfg.Console.OutputBufferCap = 1 << 20 // 1 MiB
	cfg.Console.InputBufferCap = 1 << 16  // 64 KiB

	cfg.Statistics.OutputFile = "stats.json"
	cfg.Statistics.Format = "json"
	cfg.Statistics.CollectHotPath = true

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
		configDir = filepath.Join(configDir, "mips32sim")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "mips32sim")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "mips32sim", "logs")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "mips32sim", "logs")

	default:
		return "logs"
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
