package compdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"ccmodifier/internal/errors"
)

// Database is a compilation database: an ordered list of entries.
type Database struct {
	Entries []*Entry
}

// Load reads and parses the database at path.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.PathNotFound, fmt.Sprintf("%s does not exist", path), err)
		}
		return nil, errors.New(errors.InternalError, fmt.Sprintf("cannot read %s", path), err)
	}
	return Parse(data)
}

// Parse decodes a database. The document must be a JSON array of objects.
func Parse(data []byte) (*Database, error) {
	if firstByte(data) != '[' {
		return nil, errors.Newf(errors.MalformedDatabase, "expected a JSON array of objects")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.New(errors.MalformedDatabase, "invalid JSON", err)
	}

	db := &Database{Entries: make([]*Entry, len(items))}
	for i, item := range items {
		e := &Entry{}
		if err := e.UnmarshalJSON(item); err != nil {
			return nil, errors.New(errors.MalformedDatabase,
				fmt.Sprintf("entry %d is not an object", i), err).
				WithDetails(map[string]int{"index": i})
		}
		db.Entries[i] = e
	}
	return db, nil
}

// Encode renders the database with two-space indentation, non-ASCII text
// left unescaped and a trailing newline.
func (db *Database) Encode() ([]byte, error) {
	entries := db.Entries
	if entries == nil {
		entries = []*Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, errors.New(errors.InternalError, "cannot encode database", err)
	}
	return buf.Bytes(), nil
}
