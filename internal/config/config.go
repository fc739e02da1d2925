package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/staffboard/internal/utils"
)

// Global configuration structure.
type Global struct {
	DatasetPath    string   `mapstructure:"dataset_path" yaml:"dataset_path"`
	Delimiter      string   `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSep     string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	DefaultColumns []string `mapstructure:"default_columns" yaml:"default_columns"`
	ExportPath     string   `mapstructure:"export_path" yaml:"export_path"`

	// HTTP dashboard
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// MySQL source for extract
	MySQLHost       string `mapstructure:"mysql_host" yaml:"mysql_host"`
	MySQLPort       int    `mapstructure:"mysql_port" yaml:"mysql_port"`
	MySQLUser       string `mapstructure:"mysql_user" yaml:"mysql_user"`
	MySQLPassword   string `mapstructure:"mysql_password" yaml:"mysql_password"`
	MySQLDatabase   string `mapstructure:"mysql_database" yaml:"mysql_database"`
	MySQLTable      string `mapstructure:"mysql_table" yaml:"mysql_table"`
	MySQLTimeoutSec int    `mapstructure:"mysql_timeout_sec" yaml:"mysql_timeout_sec"`
}

// Keys lists every configuration key in display order.
var Keys = []string{
	"dataset_path", "delimiter", "decimal_separator", "default_columns", "export_path",
	"listen_addr", "log_level", "log_format",
	"mysql_host", "mysql_port", "mysql_user", "mysql_password", "mysql_database",
	"mysql_table", "mysql_timeout_sec",
}

// DefaultPath returns ~/.staffboard/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".staffboard", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.staffboard/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("STAFFBOARD")
	v.AutomaticEnv()

	v.SetDefault("dataset_path", "dataset.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", ".")
	v.SetDefault("default_columns", []string{})
	v.SetDefault("export_path", "filtered_data.csv")
	v.SetDefault("listen_addr", "127.0.0.1:8501")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("mysql_host", "localhost")
	v.SetDefault("mysql_port", 3306)
	v.SetDefault("mysql_user", "root")
	v.SetDefault("mysql_password", "")
	v.SetDefault("mysql_database", "my_streamlit")
	v.SetDefault("mysql_table", "customers")
	v.SetDefault("mysql_timeout_sec", 10)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		path, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine; a broken one is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// MySQLTimeout returns the connect/query timeout for extract.
func (c *Global) MySQLTimeout() time.Duration {
	if c.MySQLTimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.MySQLTimeoutSec) * time.Second
}

// Set assigns a single key from its textual form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "dataset_path":
		c.DatasetPath = val
	case "delimiter":
		if val != `\t` && val != "tab" && len([]rune(val)) != 1 {
			return fmt.Errorf("invalid delimiter: %q (use a single character or \\t)", val)
		}
		c.Delimiter = val
	case "decimal_separator":
		if val != "." && val != "," {
			return fmt.Errorf("invalid decimal_separator: %q (use . or ,)", val)
		}
		c.DecimalSep = val
	case "default_columns":
		c.DefaultColumns = SplitList(val)
	case "export_path":
		c.ExportPath = val
	case "listen_addr":
		c.ListenAddr = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "mysql_host":
		c.MySQLHost = val
	case "mysql_port":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 || i > 65535 {
			return fmt.Errorf("invalid port for mysql_port: %v", val)
		}
		c.MySQLPort = i
	case "mysql_user":
		c.MySQLUser = val
	case "mysql_password":
		c.MySQLPassword = val
	case "mysql_database":
		c.MySQLDatabase = val
	case "mysql_table":
		c.MySQLTable = val
	case "mysql_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for mysql_timeout_sec: %v", val)
		}
		c.MySQLTimeoutSec = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DelimiterRune maps the configured delimiter to a rune; "\t" and "tab" mean
// a tab and an empty value means auto-detect (returned as 0).
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "":
		return 0
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}

// DecimalRune returns the configured decimal separator, '.' by default.
func (c *Global) DecimalRune() rune {
	if c.DecimalSep == "," {
		return ','
	}
	return '.'
}
