// Package extract dumps a MySQL table to the delimited file the dashboard
// reads.
package extract

import (
	"context"
	"database/sql"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds the MySQL connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

// Addr returns host:port.
func (c Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// DSN formats the driver connection string. Dates are parsed into time.Time.
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = c.Addr()
	mc.DBName = c.Database
	mc.ParseTime = true
	if c.Timeout > 0 {
		mc.Timeout = c.Timeout
		mc.ReadTimeout = c.Timeout
	}
	return mc.FormatDSN()
}

// Connect opens the database and verifies it with a ping bounded by
// cfg.Timeout. Any failure is returned as *ConnectionError and no handle is
// left open.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, &ConnectionError{Addr: cfg.Addr(), Err: err}
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, &ConnectionError{Addr: cfg.Addr(), Err: err}
	}
	return db, nil
}
