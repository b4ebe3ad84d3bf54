package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/pkg/adapter"
)

func snapshotFixture() RowSnapshot {
	return RowSnapshot{
		"row-0": {"id": 1, "name": "ada", "email": "a@b"},
		"row-1": {"id": 2, "name": "bob", "email": nil},
		"row-2": {"id": 3, "name": "eve", "email": "e@b"},
	}
}

func TestBuildOperationsOrdering(t *testing.T) {
	batch := EditBatch{
		Deleted: []RowRef{"row-1"},
		Modified: map[RowRef]map[string]interface{}{
			"row-0": {"email": "new@b"},
		},
		Inserted: map[RowRef]map[string]interface{}{
			"new-0": {"id": "", "name": "grace", "email": "g@b"},
		},
	}

	ops, bestEffort, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
	require.NoError(t, err)
	assert.False(t, bestEffort)
	require.Len(t, ops, 3)

	assert.Equal(t, OpDelete, ops[0].Kind)
	assert.Equal(t, OpUpdate, ops[1].Kind)
	assert.Equal(t, OpInsert, ops[2].Kind)
}

func TestBuildOperationsDelete(t *testing.T) {
	batch := EditBatch{Deleted: []RowRef{"row-1"}}
	ops, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
	require.NoError(t, err)
	require.Len(t, ops, 1)

	t.Run("targets by primary key and carries the original row", func(t *testing.T) {
		op := ops[0]
		assert.Equal(t, []adapter.Condition{{Column: "id", Value: 2}}, op.Identity.Conditions)
		assert.Equal(t, "bob", op.OriginalRow["name"])
	})

	t.Run("unknown row reference fails", func(t *testing.T) {
		_, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(),
			EditBatch{Deleted: []RowRef{"row-99"}})
		assert.Error(t, err)
	})
}

func TestBuildOperationsUpdate(t *testing.T) {
	t.Run("identity resolved from the snapshot, not the edited values", func(t *testing.T) {
		batch := EditBatch{
			Modified: map[RowRef]map[string]interface{}{
				"row-2": {"name": "mallory"},
			},
		}
		ops, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
		require.NoError(t, err)
		require.Len(t, ops, 1)

		assert.Equal(t, []adapter.Condition{{Column: "id", Value: 3}}, ops[0].Identity.Conditions)
		assert.Equal(t, map[string]interface{}{"name": "mallory"}, ops[0].Changes)
	})

	t.Run("empty optional value becomes NULL", func(t *testing.T) {
		batch := EditBatch{
			Modified: map[RowRef]map[string]interface{}{
				"row-2": {"email": ""},
			},
		}
		ops, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
		require.NoError(t, err)

		assert.Equal(t, map[string]interface{}{"email": nil}, ops[0].Changes)
	})

	t.Run("only changed columns are carried", func(t *testing.T) {
		batch := EditBatch{
			Modified: map[RowRef]map[string]interface{}{
				"row-2": {"email": "x@b"},
			},
		}
		ops, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
		require.NoError(t, err)

		assert.NotContains(t, ops[0].Changes, "name")
		assert.NotContains(t, ops[0].Changes, "id")
	})
}

func TestBuildOperationsInsert(t *testing.T) {
	t.Run("empty primary key is stripped for autogeneration", func(t *testing.T) {
		batch := EditBatch{
			Inserted: map[RowRef]map[string]interface{}{
				"new-0": {"id": "", "name": "grace", "email": "g@b"},
			},
		}
		ops, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
		require.NoError(t, err)
		require.Len(t, ops, 1)

		assert.NotContains(t, ops[0].Values, "id")
		assert.Equal(t, "grace", ops[0].Values["name"])
	})

	t.Run("explicit primary key is kept verbatim", func(t *testing.T) {
		batch := EditBatch{
			Inserted: map[RowRef]map[string]interface{}{
				"new-0": {"id": 42, "name": "grace", "email": "g@b"},
			},
		}
		ops, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
		require.NoError(t, err)

		assert.Equal(t, 42, ops[0].Values["id"])
	})

	t.Run("empty optional columns become NULL", func(t *testing.T) {
		batch := EditBatch{
			Inserted: map[RowRef]map[string]interface{}{
				"new-0": {"id": 42, "name": "grace", "email": ""},
			},
		}
		ops, _, err := BuildOperations("users", userColumns, []string{"id"}, snapshotFixture(), batch)
		require.NoError(t, err)

		email, present := ops[0].Values["email"]
		assert.True(t, present)
		assert.Nil(t, email)
	})
}

func TestBuildOperationsWithoutPrimaryKey(t *testing.T) {
	batch := EditBatch{Deleted: []RowRef{"row-1"}}
	ops, bestEffort, err := BuildOperations("users", userColumns, nil, snapshotFixture(), batch)
	require.NoError(t, err)

	assert.True(t, bestEffort)
	require.Len(t, ops, 1)
	assert.Len(t, ops[0].Identity.Conditions, len(userColumns))
}
