package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is an opaque JSON record (a repository or a workflow run).
// The raw bytes are kept as fetched so the full field set survives a
// round trip through disk and the store.
type Document struct {
	// URL is the natural key, extracted from the "url" field.
	URL string

	// Raw is the JSON object.
	Raw json.RawMessage
}

// NewDocument parses a JSON object and extracts its natural key.
// A missing key is not an error; callers decide how to treat it.
func NewDocument(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, fmt.Errorf("%w: document is not a JSON object", ErrInvalidInput)
	}

	var key struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(trimmed, &key); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	buf := make([]byte, len(trimmed))
	copy(buf, trimmed)

	return Document{URL: key.URL, Raw: buf}, nil
}

// MustDocument is NewDocument for literals in tests and fixtures.
func MustDocument(raw string) Document {
	doc, err := NewDocument([]byte(raw))
	if err != nil {
		panic(err)
	}
	return doc
}

// HasKey returns true if the document carries a natural key.
func (d Document) HasKey() bool {
	return d.URL != ""
}

// Fields decodes the top-level fields of the document.
func (d Document) Fields() (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(d.Raw, &fields); err != nil {
		return nil, fmt.Errorf("decode document fields: %w", err)
	}
	return fields, nil
}

// MarshalJSON returns the raw document.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.Raw) == 0 {
		return []byte("null"), nil
	}
	return d.Raw, nil
}

// UnmarshalJSON parses a document and extracts its key.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := NewDocument(data)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

// Keys returns the natural keys of the documents, in order.
func Keys(docs []Document) []string {
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.URL)
	}
	return keys
}

// Merge sets every top-level field of update on d and returns the result.
// Fields present only in d are kept. The natural key comes from the merged body.
func (d Document) Merge(update Document) (Document, error) {
	base, err := d.Fields()
	if err != nil {
		return Document{}, err
	}
	fields, err := update.Fields()
	if err != nil {
		return Document{}, err
	}
	if base == nil {
		base = make(map[string]json.RawMessage, len(fields))
	}
	for k, v := range fields {
		base[k] = v
	}
	raw, err := json.Marshal(base)
	if err != nil {
		return Document{}, fmt.Errorf("encode merged document: %w", err)
	}
	return NewDocument(raw)
}
