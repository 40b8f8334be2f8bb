package sqlite

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// sqlString renders v as a text literal. SQLite stops reading a statement at
// a NUL byte, so such strings are written as a hex blob cast back to text.
func sqlString(v string) string {
	if strings.ContainsRune(v, 0) {
		return "CAST(X'" + hex.EncodeToString([]byte(v)) + "' AS TEXT)"
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func sqlValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return sqlString(t)
	case int:
		return strconv.Itoa(t)
	case *int:
		if t == nil {
			return "NULL"
		}
		return strconv.Itoa(*t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return sqlString(fmt.Sprint(v))
	}
}

func insertStmt(table string, columns []string, values ...any) string {
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = sqlValue(v)
	}
	return fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(rendered, ", "))
}

func stringifyDBValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
