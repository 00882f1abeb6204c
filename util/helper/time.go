package helper_util

import (
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// ParseTime reads a timestamp property as stored by the DAOs (RFC3339 string)
// or as a native Neo4j temporal value. Missing values yield the zero time.
func ParseTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case dbtype.LocalDateTime:
		return v.Time(), nil
	case string:
		if v == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339, v)
	default:
		return time.Time{}, fmt.Errorf("unsupported type for time parsing: %T", value)
	}
}

// FormatTime is the storage format for timestamp properties.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
