package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Operation is one of the collection operations the command grammar accepts.
type Operation string

const (
	OpFind       Operation = "find"
	OpInsertOne  Operation = "insertOne"
	OpInsertMany Operation = "insertMany"
	OpUpdateOne  Operation = "updateOne"
	OpUpdateMany Operation = "updateMany"
	OpDeleteOne  Operation = "deleteOne"
	OpDeleteMany Operation = "deleteMany"
)

var operations = map[string]Operation{
	"find":       OpFind,
	"insertone":  OpInsertOne,
	"insertmany": OpInsertMany,
	"updateone":  OpUpdateOne,
	"updatemany": OpUpdateMany,
	"deleteone":  OpDeleteOne,
	"deletemany": OpDeleteMany,
}

// Command is one parsed collection.operation(args) invocation.
type Command struct {
	Collection string
	Operation  Operation
	Args       []interface{}
}

// ParseCommand parses the minimal command grammar:
//
//	collection.operation(arg, arg, ...)
//
// with an optional "db." prefix, e.g. db.users.find({"active": true}).
// This is a narrow, explicitly scoped sub-grammar, not a shell parser:
// arguments must be JSON. Malformed argument JSON degrades to an empty
// argument list rather than aborting, so a batch of commands survives one
// bad literal.
func ParseCommand(text string) (*Command, error) {
	trimmed := strings.TrimSpace(text)
	trimmed = strings.TrimPrefix(trimmed, "db.")

	open := strings.Index(trimmed, "(")
	if open < 0 || !strings.HasSuffix(trimmed, ")") {
		return nil, fmt.Errorf("expected collection.operation(...), got %q", text)
	}

	head := strings.TrimSpace(trimmed[:open])
	dot := strings.LastIndex(head, ".")
	if dot <= 0 || dot == len(head)-1 {
		return nil, fmt.Errorf("expected collection.operation(...), got %q", text)
	}

	collection := strings.TrimSpace(head[:dot])
	opName := strings.TrimSpace(head[dot+1:])
	op, ok := operations[strings.ToLower(opName)]
	if !ok {
		return nil, fmt.Errorf("unsupported operation %q", opName)
	}

	return &Command{
		Collection: collection,
		Operation:  op,
		Args:       parseArgs(trimmed[open+1 : len(trimmed)-1]),
	}, nil
}

// parseArgs decodes the argument list. Wrapping the raw text in brackets
// turns the comma-separated arguments into one JSON array, which handles
// commas inside nested literals without a bespoke tokenizer.
func parseArgs(raw string) []interface{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var args []interface{}
	if err := json.Unmarshal([]byte("["+raw+"]"), &args); err != nil {
		// Best effort: a malformed argument falls back to no arguments.
		return nil
	}
	return args
}

// argDoc returns the i-th argument as a document, or an empty document.
func (c *Command) argDoc(i int) map[string]interface{} {
	if i < len(c.Args) {
		if doc, ok := c.Args[i].(map[string]interface{}); ok {
			return doc
		}
	}
	return map[string]interface{}{}
}

// documents flattens the arguments into a document list, accepting both
// insertOne(doc, doc) and insertMany([doc, doc]) shapes.
func (c *Command) documents() []map[string]interface{} {
	var docs []map[string]interface{}
	for _, arg := range c.Args {
		switch v := arg.(type) {
		case map[string]interface{}:
			docs = append(docs, v)
		case []interface{}:
			for _, item := range v {
				if doc, ok := item.(map[string]interface{}); ok {
					docs = append(docs, doc)
				}
			}
		}
	}
	return docs
}

// Run dispatches the command to the matching native collection operation.
func (c *Command) Run(ctx context.Context, db *mongo.Database) ([]map[string]interface{}, error) {
	collection := db.Collection(c.Collection)

	switch c.Operation {
	case OpFind:
		cursor, err := collection.Find(ctx, toBSONDoc(c.argDoc(0)))
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)
		return drainCursor(ctx, cursor)

	case OpInsertOne, OpInsertMany:
		count, err := InsertData(ctx, db, c.Collection, c.documents())
		if err != nil {
			return nil, err
		}
		return []map[string]interface{}{{"insertedCount": count}}, nil

	case OpUpdateOne, OpUpdateMany:
		filter := toBSONDoc(c.argDoc(0))
		update := updateDocument(c.argDoc(1))

		var (
			result *mongo.UpdateResult
			err    error
		)
		if c.Operation == OpUpdateOne {
			result, err = collection.UpdateOne(ctx, filter, update)
		} else {
			result, err = collection.UpdateMany(ctx, filter, update)
		}
		if err != nil {
			return nil, err
		}
		return []map[string]interface{}{{
			"matchedCount":  result.MatchedCount,
			"modifiedCount": result.ModifiedCount,
		}}, nil

	case OpDeleteOne, OpDeleteMany:
		filter := toBSONDoc(c.argDoc(0))

		var (
			result *mongo.DeleteResult
			err    error
		)
		if c.Operation == OpDeleteOne {
			result, err = collection.DeleteOne(ctx, filter)
		} else {
			result, err = collection.DeleteMany(ctx, filter)
		}
		if err != nil {
			return nil, err
		}
		return []map[string]interface{}{{"deletedCount": result.DeletedCount}}, nil
	}

	return nil, fmt.Errorf("unsupported operation %q", c.Operation)
}

// updateDocument wraps a plain document in $set so both shell-style update
// operators and bare replacement documents work.
func updateDocument(doc map[string]interface{}) bson.D {
	for key := range doc {
		if strings.HasPrefix(key, "$") {
			return toBSONDoc(doc)
		}
	}
	return bson.D{{Key: "$set", Value: toBSONDoc(doc)}}
}
