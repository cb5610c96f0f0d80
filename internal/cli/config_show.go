package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/configrepo/internal/config"
	"github.com/mrz1836/configrepo/internal/constants"
)

// AddConfigCommand adds the config command and its subcommands to the root command.
func AddConfigCommand(root *cobra.Command, global *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configrepo configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigShowCmd(global))
	root.AddCommand(cmd)
}

func newConfigShowCmd(global *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configrepo configuration with source annotations.

Shows the current configuration values and indicates where each value comes from:
  - flag: From a command line flag
  - env: From a CONFIGREPO_* environment variable
  - project: From .configrepo/config.yaml
  - global: From ~/.configrepo/config.yaml
  - default: Built-in default value

Examples:
  configrepo config show
  configrepo config show -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), global)
		},
	}
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
	// SourceFlag indicates the value came from a command line flag.
	SourceFlag ConfigSource = "flag"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Key    string       `json:"key" yaml:"key"`
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// configValues holds the raw contents of one config file.
type configValues map[string]any

// lookup reports whether a dotted key is set in the file.
func (c configValues) lookup(key string) bool {
	var node any = c
	for _, part := range strings.Split(key, ".") {
		// yaml.v3 decodes nested mappings into the named type of the root map.
		var m map[string]any
		switch v := node.(type) {
		case configValues:
			m = v
		case map[string]any:
			m = v
		default:
			return false
		}
		var ok bool
		if node, ok = m[part]; !ok {
			return false
		}
	}
	return true
}

func runConfigShow(ctx context.Context, w io.Writer, global *GlobalFlags) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cfg, err := loadConfig(ctx, global)
	if err != nil {
		return err
	}

	values := buildAnnotatedConfig(cfg, global)

	switch cfg.Output.Format {
	case constants.OutputJSON:
		return writeJSON(w, values)
	case constants.OutputYAML:
		return writeYAML(w, values)
	default:
		writeAnnotatedText(w, values)
		return nil
	}
}

// buildAnnotatedConfig lists every configuration value with its source.
func buildAnnotatedConfig(cfg *config.Config, global *GlobalFlags) []ConfigValueWithSource {
	globalCfg := loadGlobalConfigOnly()
	projectCfg := loadConfigFile(config.ProjectConfigPath())

	entry := func(key string, value any, flagSet bool) ConfigValueWithSource {
		return ConfigValueWithSource{Key: key, Value: value, Source: determineSource(key, flagSet, globalCfg, projectCfg)}
	}

	return []ConfigValueWithSource{
		entry("cipher.key_file", cfg.Cipher.KeyFile, global.KeyFile != ""),
		entry("snapshot.path", cfg.Snapshot.Path, global.Snapshot != ""),
		entry("conversion.parallelism", cfg.Conversion.Parallelism, global.Parallelism != 0),
		entry("conversion.timeout", cfg.Conversion.Timeout.String(), false),
		entry("output.format", cfg.Output.Format, global.Output != ""),
	}
}

func loadGlobalConfigOnly() configValues {
	path, err := config.GlobalConfigPath()
	if err != nil {
		return nil
	}
	return loadConfigFile(path)
}

// loadConfigFile reads a config file for source determination.
// Unreadable or malformed files count as not setting anything.
func loadConfigFile(path string) configValues {
	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		return nil
	}
	values := make(configValues)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

// determineSource determines where a configuration value came from,
// following the precedence of the configuration loader.
func determineSource(key string, flagSet bool, globalCfg, projectCfg configValues) ConfigSource {
	if flagSet {
		return SourceFlag
	}
	envKey := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if os.Getenv(envKey) != "" {
		return SourceEnv
	}
	if projectCfg.lookup(key) {
		return SourceProject
	}
	if globalCfg.lookup(key) {
		return SourceGlobal
	}
	return SourceDefault
}

// configShowStyles contains styling for the config show command output.
type configShowStyles struct {
	header  lipgloss.Style
	key     lipgloss.Style
	sources map[ConfigSource]lipgloss.Style
	dim     lipgloss.Style
}

func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D7FF")),
		key:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF")),
		sources: map[ConfigSource]lipgloss.Style{
			SourceFlag:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF87FF")),
			SourceEnv:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
			SourceProject: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
			SourceGlobal:  lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF87")),
			SourceDefault: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		},
		dim: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

func writeAnnotatedText(w io.Writer, values []ConfigValueWithSource) {
	styles := newConfigShowStyles()

	_, _ = fmt.Fprintln(w, styles.header.Render("Effective configrepo configuration"))
	_, _ = fmt.Fprintln(w)

	table := NewTable(w, []TableColumn{
		{Name: "KEY", Width: 24},
		{Name: "VALUE", Width: 48},
		{Name: "SOURCE", Width: 7},
	})
	table.WriteHeader()
	for _, v := range values {
		display := fmt.Sprint(v.Value)
		if display == "" {
			display = "(not set)"
		}
		table.WriteStyledRow([]string{v.Key, display, string(v.Source)}, 2, styles.sources[v.Source])
	}

	_, _ = fmt.Fprintln(w)
	if globalPath, err := config.GlobalConfigPath(); err == nil {
		_, _ = fmt.Fprintln(w, styles.dim.Render("Global:  "+describePath(globalPath)))
	}
	projectPath, _ := filepath.Abs(config.ProjectConfigPath())
	_, _ = fmt.Fprintln(w, styles.dim.Render("Project: "+describePath(projectPath)))
}

func describePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path + " (not found)"
	}
	return path
}
