package common

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

func TestBuildWhere(t *testing.T) {
	t.Run("question placeholders", func(t *testing.T) {
		clause, args := BuildWhere([]adapter.Condition{
			{Column: "id", Value: 3},
			{Column: "name", Value: "ada"},
		}, "`", dbcapabilities.PlaceholderQuestion, 0)

		assert.Equal(t, "`id` = ? AND `name` = ?", clause)
		assert.Equal(t, []interface{}{3, "ada"}, args)
	})

	t.Run("dollar placeholders honor the offset", func(t *testing.T) {
		clause, args := BuildWhere([]adapter.Condition{
			{Column: "id", Value: 3},
			{Column: "email", Value: "a@b"},
		}, `"`, dbcapabilities.PlaceholderDollar, 2)

		assert.Equal(t, `"id" = $3 AND "email" = $4`, clause)
		assert.Equal(t, []interface{}{3, "a@b"}, args)
	})

	t.Run("null conditions bind no argument", func(t *testing.T) {
		clause, args := BuildWhere([]adapter.Condition{
			{Column: "id", Value: 3},
			{Column: "email", IsNull: true},
			{Column: "name", Value: "ada"},
		}, `"`, dbcapabilities.PlaceholderDollar, 0)

		assert.Equal(t, `"id" = $1 AND "email" IS NULL AND "name" = $2`, clause)
		assert.Equal(t, []interface{}{3, "ada"}, args)
	})

	t.Run("empty condition list", func(t *testing.T) {
		clause, args := BuildWhere(nil, `"`, dbcapabilities.PlaceholderQuestion, 0)
		assert.Empty(t, clause)
		assert.Empty(t, args)
	})
}

func TestBuildSet(t *testing.T) {
	changes := map[string]interface{}{"name": "ada", "email": nil}
	columns := SortedColumns(changes)

	t.Run("stable column order", func(t *testing.T) {
		assert.Equal(t, []string{"email", "name"}, columns)
	})

	t.Run("question placeholders", func(t *testing.T) {
		clause, args := BuildSet(columns, changes, "`", dbcapabilities.PlaceholderQuestion)
		assert.Equal(t, "`email` = ?, `name` = ?", clause)
		assert.Equal(t, []interface{}{nil, "ada"}, args)
	})

	t.Run("dollar placeholders", func(t *testing.T) {
		clause, args := BuildSet(columns, changes, `"`, dbcapabilities.PlaceholderDollar)
		assert.Equal(t, `"email" = $1, "name" = $2`, clause)
		assert.Len(t, args, 2)
	})
}
