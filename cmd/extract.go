package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/staffboard/internal/extract"
)

var (
	extHost     string
	extPort     int
	extUser     string
	extPassword string
	extDatabase string
	extTable    string
	extOrderBy  string
	extOutput   string
	extTimeout  int
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Dump a MySQL table to the dataset CSV",
	Long: `Connect to MySQL, run SELECT * on the configured table (ordered by id by
default) and write the result as CSV. The output file is replaced only after
the whole result set has been read, so a failed run leaves it untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("host") {
			cfg.MySQLHost = extHost
		}
		if f.Changed("port") {
			cfg.MySQLPort = extPort
		}
		if f.Changed("user") {
			cfg.MySQLUser = extUser
		}
		if f.Changed("password") {
			cfg.MySQLPassword = extPassword
		}
		if f.Changed("database") {
			cfg.MySQLDatabase = extDatabase
		}
		if f.Changed("table") {
			cfg.MySQLTable = extTable
		}
		if f.Changed("timeout") && extTimeout > 0 {
			cfg.MySQLTimeoutSec = extTimeout
		}
		out := cfg.DatasetPath
		if f.Changed("output") && extOutput != "" {
			out = extOutput
		}
		if cfg.MySQLTable == "" {
			return fmt.Errorf("no table given (use --table or config set mysql_table)")
		}
		if out == "" {
			return fmt.Errorf("no output path (use --output or --data)")
		}

		opt := extract.Options{Table: cfg.MySQLTable, OrderBy: extOrderBy, Logger: logger}
		if _, err := extract.Query(opt); err != nil {
			return err
		}
		conn := extract.Config{
			Host:     cfg.MySQLHost,
			Port:     cfg.MySQLPort,
			User:     cfg.MySQLUser,
			Password: cfg.MySQLPassword,
			Database: cfg.MySQLDatabase,
			Timeout:  cfg.MySQLTimeout(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, 10*cfg.MySQLTimeout())
		defer cancel()

		logger.Debug("extracting", "addr", conn.Addr(), "database", conn.Database, "table", opt.Table)
		n, err := extract.Run(ctx, conn, opt, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Extracted %d rows from %s to %s\n", n, opt.Table, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extHost, "host", "", "MySQL host (overrides mysql_host)")
	extractCmd.Flags().IntVar(&extPort, "port", 0, "MySQL port (overrides mysql_port)")
	extractCmd.Flags().StringVar(&extUser, "user", "", "MySQL user (overrides mysql_user)")
	extractCmd.Flags().StringVar(&extPassword, "password", "", "MySQL password (overrides mysql_password; prefer STAFFBOARD_MYSQL_PASSWORD)")
	extractCmd.Flags().StringVar(&extDatabase, "database", "", "database name (overrides mysql_database)")
	extractCmd.Flags().StringVar(&extTable, "table", "", "table to dump, optionally db.table (overrides mysql_table)")
	extractCmd.Flags().StringVar(&extOrderBy, "order-by", extract.DefaultOrderBy, "ordering as 'column [ASC|DESC]'; empty for none")
	extractCmd.Flags().StringVarP(&extOutput, "output", "o", "", "output CSV path (default: dataset_path)")
	extractCmd.Flags().IntVar(&extTimeout, "timeout", 0, "connect/read timeout in seconds (overrides mysql_timeout_sec)")
}
