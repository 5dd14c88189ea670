package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/worklog/internal/config"
	"github.com/gorewood/worklog/internal/output"
)

// newConfigCmd creates the config command group.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or create the configuration file",
		Annotations: skip(),
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after applying defaults, the config file and
WORKLOG_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
			cfg := a.cfg
			path := config.Path()
			_, statErr := os.Stat(path)

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"config_file":   path,
					"config_exists": statErr == nil,
					"config":        cfg,
					"editor":        cfg.EditorCommand(),
				})
			}

			printer.Section("Config File")
			printer.KeyValue("Path", path)
			printer.KeyValue("Exists", formatBool(statErr == nil))

			printer.Section("Settings")
			printer.KeyValue("log_path", cfg.LogPath)
			printer.KeyValue("interval", strconv.Itoa(cfg.Interval))
			printer.KeyValue("project_marker", cfg.ProjectMarker)
			printer.KeyValue("editor", cfg.EditorCommand())
			printer.KeyValue("screen", formatBool(cfg.Screen))
			printer.KeyValue("tail_lines", strconv.Itoa(cfg.TailLines))
			printer.KeyValue("log_level", cfg.LogLevel)
			printer.KeyValue("log_file", orNone(cfg.LogFile))
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd)).WithStderr(cmd.ErrOrStderr())
			path := config.Path()
			if path == "" {
				err := output.NewSystemError("cannot determine config directory")
				printer.Error(err)
				return err
			}
			if err := config.WriteDefault(path, force); err != nil {
				err = output.NewUserError(err.Error())
				printer.Error(err)
				return err
			}
			return printer.Success(map[string]any{
				"status":  "created",
				"path":    path,
				"message": "Wrote " + path,
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
