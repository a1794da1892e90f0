package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultConfigPath string = "config.json"
	DefaultEnvPath    string = ".env"

	DefaultScript     string  = "detect.py"
	DefaultConfidence float64 = 0.25
)

type Config struct {
	mu sync.RWMutex

	Interpreter string `json:"interpreter"`
	Script      string `json:"script"`
	WorkDir     string `json:"work_dir"`

	DefaultConfidence float64 `json:"default_confidence"`
	WaitDelayMs       int     `json:"wait_delay_ms"`

	LogLevel     string `json:"log_level"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

// Launcher is an immutable copy of the fields needed to start the detector.
type Launcher struct {
	Interpreter string
	Script      string
	WorkDir     string
	WaitDelay   time.Duration
}

func (c *Config) Launcher() Launcher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Launcher{
		Interpreter: c.Interpreter,
		Script:      c.Script,
		WorkDir:     c.WorkDir,
		WaitDelay:   time.Duration(c.WaitDelayMs) * time.Millisecond,
	}
}

func (c *Config) GetConfidence() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DefaultConfidence
}

func (c *Config) GetWorkDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.WorkDir
}

func (c *Config) GetWindowSize() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.WindowWidth, c.WindowHeight
}

// SlogLevel maps the textual log level onto slog. Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfigFile decodes path over the defaults. A missing file is not an error;
// the defaults are returned together with any decode error so the caller can
// keep going.
func LoadConfigFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	loaded := NewDefaultConfig()
	if err := json.NewDecoder(f).Decode(loaded); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	return loaded, nil
}

// Load reads the JSON file, then the optional .env file, then applies the
// YOLO_* environment overrides.
func Load(path, envPath string) (*Config, error) {
	cfg, err := LoadConfigFile(path)

	if envErr := godotenv.Load(envPath); envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		err = errors.Join(err, fmt.Errorf("load env %s: %w", envPath, envErr))
	}

	cfg.applyEnv()
	return cfg, err
}

func (c *Config) applyEnv() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Interpreter = getEnv("YOLO_INTERPRETER", c.Interpreter)
	c.Script = getEnv("YOLO_SCRIPT", c.Script)
	c.WorkDir = getEnv("YOLO_WORKDIR", c.WorkDir)
	c.LogLevel = getEnv("YOLO_LOG_LEVEL", c.LogLevel)
	c.DefaultConfidence = getEnvAsFloat("YOLO_CONF_THRES", c.DefaultConfidence)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func defaultInterpreter() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

func NewDefaultConfig() *Config {
	return &Config{
		Interpreter:       defaultInterpreter(),
		Script:            DefaultScript,
		DefaultConfidence: DefaultConfidence,
		WaitDelayMs:       5000,
		LogLevel:          "info",
		WindowWidth:       600,
		WindowHeight:      500,
	}
}
