package helper_util_test

import (
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	helper_util "github.com/dev-mohitbeniwal/bookclub/util/helper"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
		wantErr               bool
	}{
		{"Default", 0, 0, helper_util.DefaultPageSize, 0, false},
		{"Explicit", 5, 10, 5, 10, false},
		{"Capped", 1000, 0, helper_util.MaxPageSize, 0, false},
		{"NegativeLimit", -1, 0, 0, 0, true},
		{"NegativeOffset", 10, -3, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := helper_util.Pagination(tt.limit, tt.offset)
			if tt.wantErr {
				assert.ErrorIs(t, err, bookclub_errors.ErrInvalidPagination)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseTime(t *testing.T) {
	stamp := time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC)

	parsed, err := helper_util.ParseTime(helper_util.FormatTime(stamp))
	require.NoError(t, err)
	assert.True(t, stamp.Equal(parsed))

	parsed, err = helper_util.ParseTime(dbtype.LocalDateTime(stamp))
	require.NoError(t, err)
	assert.True(t, stamp.Equal(parsed))

	parsed, err = helper_util.ParseTime(nil)
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())

	_, err = helper_util.ParseTime(42)
	assert.Error(t, err)
}
