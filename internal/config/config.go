package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no planner found (run 'effort init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the planner configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Planner  PlannerConfig  `yaml:"planner"`
	TasksDir string         `yaml:"tasks_dir"`
	Storage  StorageConfig  `yaml:"storage"`
	Defaults DefaultsConfig `yaml:"defaults"`
	TUI      TUIConfig      `yaml:"tui,omitempty"`
	Tags     []task.Tag     `yaml:"tags,omitempty"`
	People   []task.Person  `yaml:"people,omitempty"`

	// dir is the absolute path to the planner directory (not serialized).
	dir string `yaml:"-"`
}

// PlannerConfig holds planner metadata.
type PlannerConfig struct {
	Name string `yaml:"name"`
}

// StorageConfig selects where tasks live.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	// Path is the database file for the sqlite backend, relative to the
	// planner directory unless absolute.
	Path string `yaml:"path,omitempty"`
}

// DefaultsConfig holds default values for new tasks and views.
type DefaultsConfig struct {
	Priority     string `yaml:"priority"`
	DueQualifier string `yaml:"due_qualifier"`
	View         string `yaml:"view"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	TitleLines int `yaml:"title_lines,omitempty"`
}

// Dir returns the absolute path to the planner directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the planner directory path on the config.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// TasksPath returns the absolute path to the tasks directory.
func (c *Config) TasksPath() string {
	return filepath.Join(c.dir, c.TasksDir)
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// DBPath returns the absolute path of the sqlite database.
func (c *Config) DBPath() string {
	p := c.Storage.Path
	if p == "" {
		p = DefaultDBFile
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// NewDefault creates a Config with default values.
func NewDefault(name string) *Config {
	return &Config{
		Version:  CurrentVersion,
		Planner:  PlannerConfig{Name: name},
		TasksDir: DefaultTasksDir,
		Storage:  StorageConfig{Backend: BackendFiles},
		Defaults: DefaultsConfig{
			Priority:     DefaultPriority,
			DueQualifier: DefaultDueQualifier,
			View:         DefaultView,
		},
		TUI: TUIConfig{TitleLines: DefaultTitleLines},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.Planner.Name == "" {
		return fmt.Errorf("%w: planner.name is required", ErrInvalid)
	}
	if c.TasksDir == "" {
		return fmt.Errorf("%w: tasks_dir is required", ErrInvalid)
	}
	if !slices.Contains(Backends, c.Storage.Backend) {
		return fmt.Errorf("%w: storage.backend %q must be one of %v", ErrInvalid, c.Storage.Backend, Backends)
	}
	if !task.Priority(c.Defaults.Priority).Valid() {
		return fmt.Errorf("%w: default priority %q not in %v", ErrInvalid, c.Defaults.Priority, task.PriorityNames())
	}
	if err := task.ValidateDueQualifier(task.DueQualifier(c.Defaults.DueQualifier)); err != nil {
		return fmt.Errorf("%w: defaults.due_qualifier: %w", ErrInvalid, err)
	}
	if !slices.Contains(Views, c.Defaults.View) {
		return fmt.Errorf("%w: default view %q not in %v", ErrInvalid, c.Defaults.View, Views)
	}
	if err := c.validateTUI(); err != nil {
		return err
	}
	if err := validateDirectory("tag", tagEntries(c.Tags)); err != nil {
		return err
	}
	return validateDirectory("person", personEntries(c.People))
}

func (c *Config) validateTUI() error {
	const minTitleLines, maxTitleLines = 1, 3
	if c.TUI.TitleLines < minTitleLines || c.TUI.TitleLines > maxTitleLines {
		return fmt.Errorf("%w: tui.title_lines must be between %d and %d",
			ErrInvalid, minTitleLines, maxTitleLines)
	}
	return nil
}

// TitleLines returns the configured number of title lines for TUI cards.
func (c *Config) TitleLines() int {
	if c.TUI.TitleLines == 0 {
		return DefaultTitleLines
	}
	return c.TUI.TitleLines
}

// Init creates a new planner in the given directory with default settings.
// It creates the planner directory, tasks subdirectory, and config file.
func Init(dir, name string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(absDir, ConfigFileName)); err == nil {
		return nil, clierr.Newf(clierr.PlannerAlreadyExists, "planner already exists in %s", absDir).
			WithDetails(map[string]any{"dir": absDir})
	}

	cfg := NewDefault(name)
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.TasksPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating tasks directory: %w", err)
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given planner directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a planner directory
// containing config.yml. Returns the absolute path to the planner directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the planner directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.PlannerNotFound,
				"no planner found (run 'effort init' to create one)")
		}
		dir = parent
	}
}
