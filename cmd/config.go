package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/clierr"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/config"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/filelock"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/task"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify planner configuration",
	Long:  `View the full configuration, get a specific key, or set a writable value.`,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configAccessor describes how to get and set a config key.
type configAccessor struct {
	get      func(*config.Config) any
	set      func(*config.Config, string) error
	writable bool
}

// configKeys lists config keys in display order.
var configKeys = []string{
	"version",
	"planner.name",
	"tasks_dir",
	"storage.backend",
	"storage.path",
	"defaults.priority",
	"defaults.due_qualifier",
	"defaults.view",
	"tui.title_lines",
	"tags",
	"people",
}

func configAccessors() map[string]configAccessor {
	return map[string]configAccessor{
		"version": {
			get: func(c *config.Config) any { return c.Version },
		},
		"planner.name": {
			get:      func(c *config.Config) any { return c.Planner.Name },
			set:      func(c *config.Config, v string) error { c.Planner.Name = v; return nil },
			writable: true,
		},
		"tasks_dir": {
			get: func(c *config.Config) any { return c.TasksDir },
		},
		"storage.backend": {
			get: func(c *config.Config) any { return c.Storage.Backend },
			set: func(c *config.Config, v string) error {
				c.Storage.Backend = v
				return nil // validation reports unknown backends
			},
			writable: true,
		},
		"storage.path": {
			get:      func(c *config.Config) any { return c.Storage.Path },
			set:      func(c *config.Config, v string) error { c.Storage.Path = v; return nil },
			writable: true,
		},
		"defaults.priority": {
			get: func(c *config.Config) any { return c.Defaults.Priority },
			set: func(c *config.Config, v string) error {
				p, err := task.ParsePriority(v)
				if err != nil {
					return err
				}
				c.Defaults.Priority = string(p)
				return nil
			},
			writable: true,
		},
		"defaults.due_qualifier": {
			get: func(c *config.Config) any { return c.Defaults.DueQualifier },
			set: func(c *config.Config, v string) error {
				if err := task.ValidateDueQualifier(task.DueQualifier(v)); err != nil {
					return err
				}
				c.Defaults.DueQualifier = v
				return nil
			},
			writable: true,
		},
		"defaults.view": {
			get: func(c *config.Config) any { return c.Defaults.View },
			set: func(c *config.Config, v string) error {
				c.Defaults.View = v
				return nil // validation reports unknown views
			},
			writable: true,
		},
		"tui.title_lines": {
			get: func(c *config.Config) any { return c.TUI.TitleLines },
			set: func(c *config.Config, v string) error {
				n, err := strconv.Atoi(v)
				if err != nil {
					return clierr.Newf(clierr.InvalidInput,
						"invalid tui.title_lines %q: must be an integer", v)
				}
				c.TUI.TitleLines = n
				return nil // validation handles range check
			},
			writable: true,
		},
		"tags": {
			get: func(c *config.Config) any { return directoryNames(tagPairs(c.Tags)) },
		},
		"people": {
			get: func(c *config.Config) any { return directoryNames(personPairs(c.People)) },
		},
	}
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessors := configAccessors()

	if outputFormat() == output.FormatJSON {
		m := make(map[string]any, len(accessors))
		for _, key := range configKeys {
			m[key] = accessors[key].get(cfg)
		}
		return output.JSON(os.Stdout, m)
	}

	// Table mode: key-value pairs.
	for _, key := range configKeys {
		val := accessors[key].get(cfg)
		fmt.Fprintf(os.Stdout, "%-24s %v\n", key, formatConfigValue(val))
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	key := args[0]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}

	val := acc.get(cfg)

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, val)
	}

	fmt.Fprintln(os.Stdout, formatConfigValue(val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	acc, ok := configAccessors()[key]
	if !ok {
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q", key)
	}
	if !acc.writable {
		return clierr.Newf(clierr.InvalidInput, "config key %q is read-only", key)
	}

	var cfg *config.Config
	err := updateConfig(cmd, func(c *config.Config) error {
		cfg = c
		return acc.set(c, value)
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"key": key, "value": acc.get(cfg)})
	}

	output.Messagef(os.Stdout, "Set %s = %v", key, formatConfigValue(acc.get(cfg)))
	return nil
}

// updateConfig loads config.yml without environment overrides, applies fn,
// validates and saves it, all under the planner lock.
func updateConfig(cmd *cobra.Command, fn func(*config.Config) error) error {
	dir, err := resolveDir()
	if err != nil {
		return err
	}
	lock, err := filelock.Acquire(commandContext(cmd), dir)
	if err != nil {
		return fmt.Errorf("acquiring lock: %w", err)
	}
	defer lock.Release() //nolint:errcheck // best-effort unlock on exit

	cfg, err := config.Load(dir)
	if errors.Is(err, config.ErrNotFound) {
		return clierr.New(clierr.PlannerNotFound, err.Error()).
			WithDetails(map[string]any{"dir": dir})
	}
	if err != nil {
		return err
	}

	if err := fn(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

func formatConfigValue(val any) string {
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return "--"
		}
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
