package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/groverrichardson/effort-flow-planner-sub001/internal/config"
	"github.com/groverrichardson/effort-flow-planner-sub001/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new planner",
	Long:  `Creates a planner directory with config.yml and a tasks/ subdirectory.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("name", "", "planner name (defaults to current directory name)")
	initCmd.Flags().String("storage", config.BackendFiles, "storage backend (files, sqlite)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := flagDir
	if dir == "" {
		dir = env.Dir
	}
	if dir == "" {
		dir = config.DefaultDir
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		name = filepath.Base(cwd)
	}

	cfg, err := config.Init(dir, name)
	if err != nil {
		return err
	}

	if backend, _ := cmd.Flags().GetString("storage"); backend != cfg.Storage.Backend {
		cfg.Storage.Backend = backend
		if err := cfg.Validate(); err != nil {
			_ = os.RemoveAll(cfg.Dir())
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     cfg.Dir(),
			"name":    name,
			"config":  cfg.ConfigPath(),
			"tasks":   cfg.TasksPath(),
			"storage": cfg.Storage.Backend,
		})
	}

	output.Messagef(os.Stdout, "Initialized planner %q in %s", name, cfg.Dir())
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:   %s", cfg.TasksPath())
	output.Messagef(os.Stdout, "  Storage: %s", cfg.Storage.Backend)
	output.Messagef(os.Stdout, "  Hint:    Declare tags with: effort tag add NAME")
	return nil
}
