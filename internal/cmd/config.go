package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Frost26/ShellGateway/internal/config"
	"github.com/Frost26/ShellGateway/internal/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage the shellgateway configuration file.

The file is read from ~/.config/shellgateway/config.yaml (or
$XDG_CONFIG_HOME/shellgateway/config.yaml), or from --config. Files ending in
.toml are read as TOML.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective config",
	Long: `Print the effective configuration as YAML, with defaults filled in.

If no config file exists, shows the default configuration.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	Args:  cobra.NoArgs,
	Run:   runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	Long: `Create a commented configuration file with all default values.

If the file already exists, this command does nothing.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	term.Print(string(data))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) {
	term.Println(activeConfigPath())
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := activeConfigPath()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return fmt.Errorf("config init writes YAML; choose a .yaml path instead of %s", path)
	}
	created, err := config.WriteDefault(configPath)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if !created {
		term.Printf("Config already exists at: %s\n", path)
		return nil
	}
	term.Printf("Created default config at: %s\n", path)
	return nil
}

func activeConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}
