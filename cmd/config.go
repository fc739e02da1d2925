package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/staffboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Staffboard configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		for _, k := range cfgpkg.Keys {
			fmt.Fprintf(out, "%s: %s\n", k, configValue(cfg, k))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Reload so flag overrides of this run are not persisted
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func configValue(c *cfgpkg.Global, key string) string {
	switch key {
	case "dataset_path":
		return c.DatasetPath
	case "delimiter":
		if c.Delimiter == "" {
			return "(auto)"
		}
		return c.Delimiter
	case "decimal_separator":
		return c.DecimalSep
	case "default_columns":
		if len(c.DefaultColumns) == 0 {
			return "(default)"
		}
		return strings.Join(c.DefaultColumns, ",")
	case "export_path":
		return c.ExportPath
	case "listen_addr":
		return c.ListenAddr
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "mysql_host":
		return c.MySQLHost
	case "mysql_port":
		return fmt.Sprint(c.MySQLPort)
	case "mysql_user":
		return c.MySQLUser
	case "mysql_password":
		return mask(c.MySQLPassword)
	case "mysql_database":
		return c.MySQLDatabase
	case "mysql_table":
		return c.MySQLTable
	case "mysql_timeout_sec":
		return fmt.Sprint(c.MySQLTimeoutSec)
	}
	return ""
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
