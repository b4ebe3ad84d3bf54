package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

func TestWrapError(t *testing.T) {
	t.Run("wraps with database context", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := WrapError(dbcapabilities.PostgreSQL, "fetch_data", cause)

		var dbErr *DatabaseError
		require.ErrorAs(t, err, &dbErr)
		assert.Equal(t, dbcapabilities.PostgreSQL, dbErr.DatabaseType)
		assert.Equal(t, "fetch_data", dbErr.Operation)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, WrapError(dbcapabilities.MySQL, "fetch_data", nil))
	})

	t.Run("does not double wrap", func(t *testing.T) {
		inner := NewDatabaseError(dbcapabilities.SQLite, "insert_data", errors.New("locked"))
		wrapped := WrapError(dbcapabilities.SQLite, "outer_op", inner)
		assert.Equal(t, inner, wrapped)
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Run("unsupported operation", func(t *testing.T) {
		err := NewUnsupportedOperationError(dbcapabilities.MongoDB, "transactions", "requires a replica set")
		assert.True(t, IsUnsupported(err))
		assert.ErrorIs(t, err, ErrOperationNotSupported)
	})

	t.Run("configuration error", func(t *testing.T) {
		err := NewConfigurationError(dbcapabilities.PostgreSQL, "host", "missing host")
		assert.True(t, IsConfigurationError(err))
		assert.False(t, IsUnsupported(err))
	})

	t.Run("validation error carries all violations", func(t *testing.T) {
		err := NewValidationError([]string{"a is null", "b is null"})
		assert.True(t, IsValidationError(err))
		assert.Contains(t, err.Error(), "a is null")
		assert.Contains(t, err.Error(), "b is null")
	})

	t.Run("connection error", func(t *testing.T) {
		err := NewConnectionError(dbcapabilities.MySQL, "localhost:3306", errors.New("refused"))
		assert.True(t, IsConnectionError(err))
		assert.Contains(t, err.Error(), "localhost:3306")
	})
}
