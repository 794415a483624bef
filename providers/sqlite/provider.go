// Package sqlite registers the embedded SQLite provider under the "sqlite"
// and "sqlite3" driver names.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"regexp"
	"slices"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"modernc.org/sqlite"

	"github.com/Sentience-Framework/sentience-v3-sub001/connector"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

const driverName = "sqlite"

// Provider opens SQLite files, or an in-memory database for ":memory:".
type Provider struct{}

func init() {
	if err := registerRegexp(); err != nil {
		panic(fmt.Sprintf("sqlite: register regexp: %v", err))
	}
	connector.Register("sqlite", &Provider{})
	connector.Register("sqlite3", &Provider{})
}

func (p *Provider) Dialect() dialect.Dialect { return dialect.NewSQLite() }

// DSN returns the modernc DSN for cfg. Foreign keys are always enforced.
func DSN(cfg connector.Config) string {
	values := url.Values{}
	values.Add("_pragma", "foreign_keys(1)")
	values.Add("_pragma", "busy_timeout(5000)")
	for _, key := range slices.Sorted(maps.Keys(cfg.Params)) {
		values.Add(key, cfg.Params[key])
	}
	return cfg.Path + "?" + values.Encode()
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config, opts ...database.Option) (connector.Connection, error) {
	db, err := sql.Open(driverName, DSN(cfg))
	if err != nil {
		return nil, err
	}
	connector.ApplyPool(db, cfg.Pool)

	opts = append([]database.Option{database.WithErrorTranslator(TranslateError)}, opts...)
	adapter, err := database.NewSQLAdapter(ctx, db, p.Dialect(), opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return adapter.OwnDB(), nil
}

// TranslateError converts a *sqlite.Error into a DriverError carrying the
// numeric result code.
func TranslateError(err error) *sqlerr.DriverError {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return nil
	}
	return &sqlerr.DriverError{Message: se.Error(), Code: strconv.Itoa(se.Code()), Err: err}
}

var patterns, _ = lru.New[string, *regexp.Regexp](128)

// registerRegexp installs regexp(pattern, value) so that "value REGEXP
// pattern" works. NULL operands yield NULL.
func registerRegexp() error {
	return sqlite.RegisterDeterministicScalarFunction("regexp", 2,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			if args[0] == nil || args[1] == nil {
				return nil, nil
			}
			re, err := compile(text(args[0]))
			if err != nil {
				return nil, err
			}
			if re.MatchString(text(args[1])) {
				return int64(1), nil
			}
			return int64(0), nil
		})
}

func compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Add(pattern, re)
	return re, nil
}

func text(v driver.Value) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}
