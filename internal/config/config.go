package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Username        string        `yaml:"username,omitempty"`
	APIKey          string        `yaml:"api_key,omitempty"`
	APIURL          string        `yaml:"api_url,omitempty"`
	Command         string        `yaml:"command,omitempty"`
	CommandArgs     []string      `yaml:"command_args,omitempty"`
	RefreshInterval time.Duration `yaml:"-"`
	RawInterval     string        `yaml:"refresh_interval,omitempty"`
	LogFile         string        `yaml:"log_file,omitempty"`
	Log             LogConfig     `yaml:"log,omitempty"`
	Repositories    []RepoConfig  `yaml:"repositories"`
}

type RepoConfig struct {
	Owner      string `yaml:"owner"`
	Name       string `yaml:"name"`
	SystemPath string `yaml:"system_path,omitempty"`
}

// FullName is the "owner/name" form used as the group key.
func (r RepoConfig) FullName() string {
	return r.Owner + "/" + r.Name
}

// Dir is SystemPath with a leading ~ expanded to the home directory.
func (r RepoConfig) Dir() string {
	return expandHome(r.SystemPath)
}

type LogConfig struct {
	Level string `yaml:"level,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/gitme/config.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "gitme", "config.yaml"), nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadOrEmpty loads path as written, returning an empty config when the file
// does not exist yet. No defaults are applied, so a later Save writes back
// only what the user set. Used by commands that edit the repository list.
func LoadOrEmpty(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// AddRepository appends owner/name. Duplicates are rejected.
func (c *Config) AddRepository(repo RepoConfig) error {
	if repo.Owner == "" || repo.Name == "" {
		return fmt.Errorf("repository must be owner/name")
	}
	for _, r := range c.Repositories {
		if strings.EqualFold(r.FullName(), repo.FullName()) {
			return fmt.Errorf("repository %s already configured", repo.FullName())
		}
	}
	c.Repositories = append(c.Repositories, repo)
	return nil
}

// RemoveRepository drops owner/name.
func (c *Config) RemoveRepository(owner, name string) error {
	full := owner + "/" + name
	for i, r := range c.Repositories {
		if strings.EqualFold(r.FullName(), full) {
			c.Repositories = append(c.Repositories[:i], c.Repositories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("repository %s not configured", full)
}

// ParseRepository splits "owner/name".
func ParseRepository(s string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q (want owner/name)", s)
	}
	return owner, name, nil
}

func (c *Config) setDefaults() error {
	if c.RawInterval == "" {
		c.RawInterval = "30s"
	}
	d, err := time.ParseDuration(c.RawInterval)
	if err != nil {
		return fmt.Errorf("parse refresh_interval %q: %w", c.RawInterval, err)
	}
	if d <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RawInterval)
	}
	c.RefreshInterval = d

	if c.LogFile == "" {
		c.LogFile = defaultLogFile()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	return nil
}

func (c *Config) validate() error {
	if len(c.Repositories) == 0 {
		return fmt.Errorf("no repositories configured (run `gitme add-repo owner/name`)")
	}
	seen := make(map[string]bool, len(c.Repositories))
	for i, r := range c.Repositories {
		if r.Owner == "" {
			return fmt.Errorf("repositories[%d]: owner required", i)
		}
		if r.Name == "" {
			return fmt.Errorf("repositories[%d]: name required", i)
		}
		key := strings.ToLower(r.FullName())
		if seen[key] {
			return fmt.Errorf("repositories[%d]: duplicate %s", i, r.FullName())
		}
		seen[key] = true
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (debug|info|warn|error)", c.Log.Level)
	}
	return nil
}

func defaultLogFile() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gitme", "gitme.log")
	}
	return filepath.Join(os.TempDir(), "gitme", "gitme.log")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
