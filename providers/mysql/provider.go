// Package mysql registers the MySQL and MariaDB providers.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"maps"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/Sentience-Framework/sentience-v3-sub001/connector"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// Provider connects through go-sql-driver/mysql. The two registrations
// differ only in the dialect they compile with.
type Provider struct {
	mariadb bool
}

func init() {
	connector.Register("mysql", &Provider{})
	connector.Register("mariadb", &Provider{mariadb: true})
}

func (p *Provider) Dialect() dialect.Dialect {
	if p.mariadb {
		return dialect.NewMariaDB()
	}
	return dialect.NewMySQL()
}

// tlsModes maps libpq style ssl modes onto the driver's tls parameter.
// Unknown values are passed through as registered TLS config names.
var tlsModes = map[string]string{
	"disable":     "false",
	"prefer":      "preferred",
	"require":     "skip-verify",
	"verify-ca":   "true",
	"verify-full": "true",
}

// DriverConfig converts cfg into the driver's configuration. Times are
// parsed into time.Time in UTC.
func DriverConfig(cfg connector.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	mc.Timeout = cfg.ConnectTimeout
	if cfg.SSLMode != "" {
		if mode, ok := tlsModes[cfg.SSLMode]; ok {
			mc.TLSConfig = mode
		} else {
			mc.TLSConfig = cfg.SSLMode
		}
	}
	if len(cfg.Params) > 0 {
		mc.Params = maps.Clone(cfg.Params)
	}
	return mc
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config, opts ...database.Option) (connector.Connection, error) {
	conn, err := mysql.NewConnector(DriverConfig(cfg))
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(conn)
	connector.ApplyPool(db, cfg.Pool)

	opts = append([]database.Option{database.WithErrorTranslator(TranslateError)}, opts...)
	adapter, err := database.NewSQLAdapter(ctx, db, p.Dialect(), opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return adapter.OwnDB(), nil
}

// TranslateError converts a server error into a DriverError carrying the
// MySQL error number, e.g. 1062 for duplicate keys.
func TranslateError(err error) *sqlerr.DriverError {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return nil
	}
	return &sqlerr.DriverError{Message: me.Message, Code: strconv.Itoa(int(me.Number)), Err: err}
}
