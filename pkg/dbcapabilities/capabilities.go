package dbcapabilities

import "strings"

// DatabaseID is the canonical identifier for a database technology supported
// by gridbase. Use these constants to look up capability information.
type DatabaseID string

const (
	PostgreSQL DatabaseID = "postgres"
	MySQL      DatabaseID = "mysql"
	SQLite     DatabaseID = "sqlite"
	MongoDB    DatabaseID = "mongodb"
)

// DataParadigm enumerates the primary data storage paradigms a backend supports.
type DataParadigm string

const (
	ParadigmRelational DataParadigm = "relational" // Tables, schemas, SQL
	ParadigmDocument   DataParadigm = "document"   // Collections, documents
)

// PlaceholderStyle describes how a relational driver binds query parameters.
type PlaceholderStyle string

const (
	PlaceholderDollar   PlaceholderStyle = "dollar"   // $1, $2, ...
	PlaceholderQuestion PlaceholderStyle = "question" // ?, ?, ...
	PlaceholderNone     PlaceholderStyle = "none"     // no textual placeholders
)

// Capability describes what a backend supports in a way the registry, the
// schema introspector, and the reconciliation engine can consume uniformly.
type Capability struct {
	// Human-friendly vendor or product name, e.g., "PostgreSQL".
	Name string `json:"name"`

	// Canonical ID used across the codebase (see DatabaseID constants).
	ID DatabaseID `json:"id"`

	// Primary data storage paradigm.
	Paradigm DataParadigm `json:"paradigm"`

	// Whether the backend is reached over the network (vs a local file).
	NetworkAttached bool `json:"networkAttached"`
	DefaultPort     int  `json:"defaultPort,omitempty"`

	// Whether write batches can be wrapped in a transaction. Backends
	// without it get sequential, non-atomic application of write operations.
	SupportsTransactions bool `json:"supportsTransactions"`

	// How identifiers are quoted in generated SQL ("\"" or "`").
	// Empty for non-SQL backends.
	IdentifierQuote string `json:"identifierQuote,omitempty"`

	// Parameter binding style of the driver.
	Placeholders PlaceholderStyle `json:"placeholders"`

	// Field that identifies a document when the backend has no declared
	// primary keys. Empty for relational backends.
	DocumentIDField string `json:"documentIdField,omitempty"`

	// Common aliases (directory names, drivers, env labels) that map to
	// this backend.
	Aliases []string `json:"aliases,omitempty"`
}

// All is a registry of capabilities keyed by the canonical database ID.
var All = map[DatabaseID]Capability{
	PostgreSQL: {
		Name:                 "PostgreSQL",
		ID:                   PostgreSQL,
		Paradigm:             ParadigmRelational,
		NetworkAttached:      true,
		DefaultPort:          5432,
		SupportsTransactions: true,
		IdentifierQuote:      `"`,
		Placeholders:         PlaceholderDollar,
		Aliases:              []string{"postgresql", "pgsql"},
	},
	MySQL: {
		Name:                 "MySQL",
		ID:                   MySQL,
		Paradigm:             ParadigmRelational,
		NetworkAttached:      true,
		DefaultPort:          3306,
		SupportsTransactions: true,
		IdentifierQuote:      "`",
		Placeholders:         PlaceholderQuestion,
		Aliases:              []string{"mariadb"},
	},
	SQLite: {
		Name:                 "SQLite",
		ID:                   SQLite,
		Paradigm:             ParadigmRelational,
		NetworkAttached:      false,
		SupportsTransactions: true,
		IdentifierQuote:      `"`,
		Placeholders:         PlaceholderQuestion,
		Aliases:              []string{"sqlite3"},
	},
	MongoDB: {
		Name:            "MongoDB",
		ID:              MongoDB,
		Paradigm:        ParadigmDocument,
		NetworkAttached: true,
		DefaultPort:     27017,
		// Multi-document transactions need a replica set; a standalone
		// server rejects them, so write batches are applied sequentially.
		SupportsTransactions: false,
		Placeholders:         PlaceholderNone,
		DocumentIDField:      "_id",
		Aliases:              []string{"mongo"},
	},
}

// nameToID resolves lowercase names and aliases to canonical IDs.
var nameToID map[string]DatabaseID

func init() {
	nameToID = make(map[string]DatabaseID, len(All)*2)
	for id, cap := range All {
		nameToID[strings.ToLower(string(id))] = id
		for _, alias := range cap.Aliases {
			nameToID[strings.ToLower(alias)] = id
		}
	}
}

// ParseID maps a free-form name or alias to a canonical DatabaseID.
func ParseID(name string) (DatabaseID, bool) {
	id, ok := nameToID[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Get returns the capability for a canonical ID.
func Get(id DatabaseID) (Capability, bool) {
	cap, ok := All[id]
	return cap, ok
}

// MustGet returns the capability for a canonical ID and panics if it is
// missing. Use only with the package's own constants.
func MustGet(id DatabaseID) Capability {
	cap, ok := All[id]
	if !ok {
		panic("dbcapabilities: unknown database id: " + string(id))
	}
	return cap
}

// GetByName returns the capability for a name or alias.
func GetByName(name string) (Capability, bool) {
	id, ok := ParseID(name)
	if !ok {
		return Capability{}, false
	}
	return Get(id)
}

// IDs returns all canonical database IDs.
func IDs() []DatabaseID {
	ids := make([]DatabaseID, 0, len(All))
	for id := range All {
		ids = append(ids, id)
	}
	return ids
}

// SupportsParadigm reports whether the backend stores data in the given
// paradigm.
func SupportsParadigm(id DatabaseID, p DataParadigm) bool {
	cap, ok := All[id]
	return ok && cap.Paradigm == p
}

// SupportsTransactions reports whether write batches against the backend can
// be applied atomically.
func SupportsTransactions(id DatabaseID) bool {
	cap, ok := All[id]
	return ok && cap.SupportsTransactions
}
