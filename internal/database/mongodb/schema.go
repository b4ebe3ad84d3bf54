package mongodb

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// SchemaOps implements adapter.SchemaOperator for MongoDB. Collections are
// schemaless, so column metadata is inferred from a sampled document.
type SchemaOps struct {
	conn *Connection
}

// ListTables returns the collection names of the database.
func (s *SchemaOps) ListTables(ctx context.Context) ([]string, error) {
	names, err := s.conn.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.MongoDB, "list_collections", err)
	}
	sort.Strings(names)
	return names, nil
}

// ListColumns infers field metadata by sampling a single document from the
// collection. An empty collection yields only the document ID field.
func (s *SchemaOps) ListColumns(ctx context.Context, table string) ([]adapter.ColumnMeta, error) {
	idField := s.conn.adapter.Capabilities().DocumentIDField

	var sample bson.M
	err := s.conn.db.Collection(table).FindOne(ctx, bson.D{}).Decode(&sample)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return []adapter.ColumnMeta{{
				Name:         idField,
				DataType:     "objectId",
				NotNull:      true,
				IsPrimaryKey: true,
			}}, nil
		}
		return nil, adapter.WrapError(dbcapabilities.MongoDB, "sample_document", err)
	}

	columns := make([]adapter.ColumnMeta, 0, len(sample))
	for name, value := range sample {
		columns = append(columns, adapter.ColumnMeta{
			Name:         name,
			DataType:     bsonTypeName(value),
			NotNull:      name == idField,
			IsPrimaryKey: name == idField,
		})
	}

	// Document ID first, remaining fields by name.
	sort.Slice(columns, func(i, j int) bool {
		if columns[i].IsPrimaryKey != columns[j].IsPrimaryKey {
			return columns[i].IsPrimaryKey
		}
		return columns[i].Name < columns[j].Name
	})
	return columns, nil
}

// ListPrimaryKeys returns the document ID field. Every collection has one.
func (s *SchemaOps) ListPrimaryKeys(ctx context.Context, table string) ([]string, error) {
	return []string{s.conn.adapter.Capabilities().DocumentIDField}, nil
}

func bsonTypeName(value interface{}) string {
	switch value.(type) {
	case bson.ObjectID:
		return "objectId"
	case string:
		return "string"
	case bool:
		return "bool"
	case int32:
		return "int"
	case int64:
		return "long"
	case float64:
		return "double"
	case bson.DateTime:
		return "date"
	case bson.Decimal128:
		return "decimal"
	case bson.Binary:
		return "binData"
	case bson.A, []interface{}:
		return "array"
	case bson.M, bson.D, map[string]interface{}:
		return "object"
	case nil:
		return "null"
	default:
		return "object"
	}
}
