package model

import (
	"encoding/json"
	"fmt"
)

// Document is the schemaless JSON form entities take inside the record
// store: an object keyed by a string "id". Timestamps are RFC 3339 strings
// once marshaled.
type Document map[string]any

// ID returns the document's string id, or "" if absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// String returns the named field as a string, or "" if absent or not a
// string. Index extraction and validation both go through this.
func (d Document) String(field string) string {
	v, _ := d[field].(string)
	return v
}

// ToDocument converts a typed entity to its stored document form via a JSON
// round trip, so the document always matches the entity's JSON contract.
func ToDocument(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling entity: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling entity document: %w", err)
	}
	return doc, nil
}

// FromDocument decodes a stored document into a typed entity.
func FromDocument(doc Document, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}
	return nil
}
