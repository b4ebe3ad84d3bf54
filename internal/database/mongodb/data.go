package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gridbase/gridbase/pkg/adapter"
	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// FetchData retrieves documents from a specified collection.
func FetchData(ctx context.Context, db *mongo.Database, collectionName string, limit int) ([]map[string]interface{}, error) {
	if collectionName == "" {
		return nil, fmt.Errorf("collection name cannot be empty")
	}

	collection := db.Collection(collectionName)

	findOptions := options.Find()
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("error querying collection %s: %v", collectionName, err)
	}
	defer cursor.Close(ctx)

	return drainCursor(ctx, cursor)
}

// drainCursor decodes every document and converts BSON types to standard Go
// types for clean JSON serialization. An empty cursor yields an empty slice,
// not an error.
func drainCursor(ctx context.Context, cursor *mongo.Cursor) ([]map[string]interface{}, error) {
	result := []map[string]interface{}{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding documents: %v", err)
	}

	for i := range result {
		convertBSONTypes(result[i])
	}

	return result, nil
}

// InsertData inserts documents into a specified collection.
func InsertData(ctx context.Context, db *mongo.Database, collectionName string, data []map[string]interface{}) (int64, error) {
	if len(data) == 0 {
		return 0, nil
	}

	collection := db.Collection(collectionName)

	documents := make([]interface{}, len(data))
	for i, doc := range data {
		documents[i] = toBSONDoc(doc)
	}

	result, err := collection.InsertMany(ctx, documents)
	if err != nil {
		return 0, fmt.Errorf("error inserting documents: %v", err)
	}

	return int64(len(result.InsertedIDs)), nil
}

// UpdateData applies the changes to every document matching the conditions.
func UpdateData(ctx context.Context, db *mongo.Database, collectionName string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	if len(changes) == 0 {
		return 0, nil
	}

	collection := db.Collection(collectionName)
	filter := conditionsToFilter(where)
	update := bson.D{{Key: "$set", Value: toBSONDoc(changes)}}

	result, err := collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("error updating documents: %v", err)
	}

	return result.ModifiedCount, nil
}

// DeleteData removes every document matching the conditions.
func DeleteData(ctx context.Context, db *mongo.Database, collectionName string, where []adapter.Condition) (int64, error) {
	if len(where) == 0 {
		return 0, fmt.Errorf("refusing to delete from %s without conditions", collectionName)
	}

	collection := db.Collection(collectionName)
	filter := conditionsToFilter(where)

	result, err := collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error deleting documents: %v", err)
	}

	return result.DeletedCount, nil
}

// conditionsToFilter renders equality conditions as a BSON filter.
// A nil filter value matches both explicit null and absent fields, which is
// the document-store reading of IS NULL.
func conditionsToFilter(conds []adapter.Condition) bson.D {
	filter := bson.D{}
	for _, c := range conds {
		if c.IsNull {
			filter = append(filter, bson.E{Key: c.Column, Value: nil})
			continue
		}
		value := c.Value
		// Hex strings targeting _id are resolved back to ObjectIDs so
		// predicates built from fetched rows round-trip.
		if c.Column == "_id" {
			if s, ok := value.(string); ok {
				if oid, err := bson.ObjectIDFromHex(s); err == nil {
					value = oid
				}
			}
		}
		filter = append(filter, bson.E{Key: c.Column, Value: value})
	}
	return filter
}

// toBSONDoc converts a map to a BSON document, recursing into nested maps
// and arrays.
func toBSONDoc(m map[string]interface{}) bson.D {
	doc := bson.D{}
	for k, v := range m {
		if nestedMap, ok := v.(map[string]interface{}); ok {
			doc = append(doc, bson.E{Key: k, Value: toBSONDoc(nestedMap)})
		} else if nestedSlice, ok := v.([]interface{}); ok {
			doc = append(doc, bson.E{Key: k, Value: convertSliceToBSON(nestedSlice)})
		} else {
			doc = append(doc, bson.E{Key: k, Value: v})
		}
	}
	return doc
}

// convertSliceToBSON converts a slice to a BSON array.
func convertSliceToBSON(slice []interface{}) interface{} {
	result := make(bson.A, len(slice))
	for i, v := range slice {
		if nestedMap, ok := v.(map[string]interface{}); ok {
			result[i] = toBSONDoc(nestedMap)
		} else if nestedSlice, ok := v.([]interface{}); ok {
			result[i] = convertSliceToBSON(nestedSlice)
		} else {
			result[i] = v
		}
	}
	return result
}

// convertBSONTypes converts BSON types to standard Go types for better JSON
// serialization.
func convertBSONTypes(doc map[string]interface{}) {
	for k, v := range doc {
		switch val := v.(type) {
		case bson.ObjectID:
			doc[k] = val.Hex()
		case bson.DateTime:
			doc[k] = time.Unix(0, int64(val)*int64(time.Millisecond)).Format(time.RFC3339)
		case bson.Binary:
			doc[k] = string(val.Data)
		case bson.Decimal128:
			doc[k] = val.String()
		case bson.D:
			nestedMap := make(map[string]interface{})
			for _, elem := range val {
				nestedMap[elem.Key] = elem.Value
			}
			convertBSONTypes(nestedMap)
			doc[k] = nestedMap
		case bson.A:
			arr := make([]interface{}, len(val))
			for i, item := range val {
				arr[i] = item
				if nestedDoc, ok := item.(map[string]interface{}); ok {
					convertBSONTypes(nestedDoc)
				}
			}
			doc[k] = arr
		case map[string]interface{}:
			convertBSONTypes(val)
		case []interface{}:
			for i, item := range val {
				if nestedDoc, ok := item.(map[string]interface{}); ok {
					convertBSONTypes(nestedDoc)
					val[i] = nestedDoc
				}
			}
		}
	}
}

// DataOps implements adapter.DataOperator for MongoDB.
type DataOps struct {
	conn *Connection
}

// Fetch retrieves documents from a collection.
func (d *DataOps) Fetch(ctx context.Context, table string, limit int) ([]map[string]interface{}, error) {
	data, err := FetchData(ctx, d.conn.db, table, limit)
	if err != nil {
		return nil, adapter.WrapError(dbcapabilities.MongoDB, "fetch_data", err)
	}
	return data, nil
}

// Insert inserts documents into a collection.
func (d *DataOps) Insert(ctx context.Context, table string, rows []map[string]interface{}) (int64, error) {
	count, err := InsertData(ctx, d.conn.db, table, rows)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MongoDB, "insert_data", err)
	}
	return count, nil
}

// Update updates documents matching the conditions.
func (d *DataOps) Update(ctx context.Context, table string, changes map[string]interface{}, where []adapter.Condition) (int64, error) {
	count, err := UpdateData(ctx, d.conn.db, table, changes, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MongoDB, "update_data", err)
	}
	return count, nil
}

// Delete removes documents matching the conditions.
func (d *DataOps) Delete(ctx context.Context, table string, where []adapter.Condition) (int64, error) {
	count, err := DeleteData(ctx, d.conn.db, table, where)
	if err != nil {
		return 0, adapter.WrapError(dbcapabilities.MongoDB, "delete_data", err)
	}
	return count, nil
}

// Execute parses a collection.operation(args) command and dispatches it to
// the matching native call.
func (d *DataOps) Execute(ctx context.Context, command string) ([]map[string]interface{}, error) {
	cmd, err := ParseCommand(command)
	if err != nil {
		return nil, adapter.NewQueryError(dbcapabilities.MongoDB, command, err)
	}

	data, err := cmd.Run(ctx, d.conn.db)
	if err != nil {
		return nil, adapter.NewQueryError(dbcapabilities.MongoDB, command, err)
	}
	return data, nil
}
