package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
}

// Downloader contains yt-dlp invocation settings.
type Downloader struct {
	Binary             string `toml:"binary"`
	CookiesFromBrowser string `toml:"cookies_from_browser"`
	CookiesFile        string `toml:"cookies_file"`
	UpdateCheckDays    int    `toml:"update_check_days"`
}

// Silence contains silence detection and boundary refinement settings.
type Silence struct {
	NoiseDB      int     `toml:"noise_db"`
	MinDuration  float64 `toml:"min_duration"`
	RefineWindow float64 `toml:"refine_window"`
}

// Split contains track output settings.
type Split struct {
	EmbedCoverArt bool `toml:"embed_cover_art"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for tracksplit.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Downloader Downloader `toml:"downloader"`
	Silence    Silence    `toml:"silence"`
	Split      Split      `toml:"split"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default config location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tracksplit/config.toml")
}

// Load locates, parses, and validates a configuration file. A `.env` file in
// the working directory is applied first so environment overrides win over
// file values. The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	// Missing .env files are the normal case.
	_ = godotenv.Load()

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnvOverrides lets TRACKSPLIT_* environment variables (typically from
// a .env file) override file values.
func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		key  string
		dest *string
	}{
		{"TRACKSPLIT_OUTPUT_DIR", &c.Paths.OutputDir},
		{"TRACKSPLIT_WORK_DIR", &c.Paths.WorkDir},
		{"TRACKSPLIT_LOG_DIR", &c.Paths.LogDir},
		{"TRACKSPLIT_YTDLP_BINARY", &c.Downloader.Binary},
		{"TRACKSPLIT_COOKIES_FROM_BROWSER", &c.Downloader.CookiesFromBrowser},
		{"TRACKSPLIT_COOKIES_FILE", &c.Downloader.CookiesFile},
		{"TRACKSPLIT_LOG_LEVEL", &c.Logging.Level},
		{"TRACKSPLIT_LOG_FORMAT", &c.Logging.Format},
	}
	for _, o := range overrides {
		if value, ok := os.LookupEnv(o.key); ok && strings.TrimSpace(value) != "" {
			*o.dest = strings.TrimSpace(value)
		}
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("tracksplit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories downloads depend on. The output
// directory is best-effort so configuration can load while external storage
// is offline.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		_ = os.MkdirAll(c.Paths.OutputDir, 0o755)
	}
	return nil
}

// UpdateStampPath is where the downloader's last-update timestamp lives.
func (c *Config) UpdateStampPath() string {
	return filepath.Join(c.Paths.WorkDir, "ytdlp-last-update")
}

// LockPath is the single-instance lock file guarding download runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.WorkDir, "tracksplit.lock")
}

// HistoryPath is the SQLite database recording finished downloads.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.WorkDir, "history.db")
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.OutputDir, &c.Paths.WorkDir, &c.Paths.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	if strings.TrimSpace(c.Downloader.CookiesFile) != "" {
		expanded, err := expandPath(c.Downloader.CookiesFile)
		if err != nil {
			return err
		}
		c.Downloader.CookiesFile = expanded
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the given location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
