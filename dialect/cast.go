package dialect

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// literalStyle describes how a dialect writes inline literals and what its
// driver accepts for values without a native binding.
type literalStyle struct {
	escape     func(string) string
	trueLit    string
	falseLit   string
	timeLayout string
	bytes      func([]byte) string

	// nativeBool and nativeTime keep bool and time.Time values as is when
	// casting for the driver.
	nativeBool bool
	nativeTime bool
}

func doubleQuotes(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func hexBlob(b []byte) string {
	return "X'" + hex.EncodeToString(b) + "'"
}

func (l literalStyle) toQuery(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case ast.Raw:
		return val.SQL
	case *ast.Raw:
		return val.SQL
	case string:
		return l.escape(val)
	case bool:
		if val {
			return l.trueLit
		}
		return l.falseLit
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int8:
		return strconv.FormatInt(int64(val), 10)
	case int16:
		return strconv.FormatInt(int64(val), 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint8:
		return strconv.FormatUint(uint64(val), 10)
	case uint16:
		return strconv.FormatUint(uint64(val), 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float32:
		return formatFloat(float64(val))
	case float64:
		return formatFloat(val)
	case time.Time:
		return l.escape(val.Format(l.timeLayout))
	case *time.Time:
		if val == nil {
			return "NULL"
		}
		return l.escape(val.Format(l.timeLayout))
	case []byte:
		return l.bytes(val)
	case uuid.UUID:
		return l.escape(val.String())
	case ulid.ULID:
		return l.escape(val.String())
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return l.escape(fmt.Sprint(val))
		}
		return l.toQuery(dv)
	case fmt.Stringer:
		return l.escape(val.String())
	default:
		return l.escape(fmt.Sprint(val))
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "NULL"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toDriver narrows a value to the set every database/sql driver accepts:
// nil, int64, float64, bool, []byte, string and time.Time.
func (l literalStyle) toDriver(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		if l.nativeBool {
			return val
		}
		if val {
			return int64(1)
		}
		return int64(0)
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return uintToDriver(uint64(val))
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return uintToDriver(val)
	case float32:
		return float64(val)
	case float64:
		return val
	case string:
		return val
	case []byte:
		return val
	case time.Time:
		if l.nativeTime {
			return val
		}
		return val.Format(l.timeLayout)
	case *time.Time:
		if val == nil {
			return nil
		}
		return l.toDriver(*val)
	case uuid.UUID:
		return val.String()
	case ulid.ULID:
		return val.String()
	case ast.Raw:
		return val.SQL
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return fmt.Sprint(val)
		}
		return l.toDriver(dv)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func uintToDriver(u uint64) any {
	if u > math.MaxInt64 {
		return strconv.FormatUint(u, 10)
	}
	return int64(u)
}
