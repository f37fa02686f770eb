// Package codec converts between stored bytes and the in-memory Document.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Codec parses and serializes whole documents.
type Codec interface {
	// Parse decodes data. Empty or whitespace-only input is an empty
	// document. Anything else that is not a {table: [row, ...]} object
	// returns an error wrapping types.ErrCorruptDocument.
	Parse(data []byte) (types.Document, error)

	// Serialize encodes doc.
	Serialize(doc types.Document) ([]byte, error)
}

// JSON is the default Codec. Integral numbers decode as int64 and other
// numbers as float64; integers too large for int64 stay json.Number so they
// round-trip exactly.
type JSON struct {
	// Indent, when non-empty, pretty-prints the document with this indent.
	Indent string
}

// Parse implements Codec. Invalid UTF-8, a repeated table name and a null
// table are corrupt: decoding them would silently lose stored data.
func (c JSON) Parse(data []byte) (types.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return types.Document{}, nil
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: document is not valid UTF-8", types.ErrCorruptDocument)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if tok, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCorruptDocument, err)
	} else if tok != json.Delim('{') {
		return nil, fmt.Errorf("%w: document is not an object", types.ErrCorruptDocument)
	}

	doc := types.Document{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrCorruptDocument, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", types.ErrCorruptDocument, tok)
		}
		if _, dup := doc[name]; dup {
			return nil, fmt.Errorf("%w: table %q appears more than once", types.ErrCorruptDocument, name)
		}

		var rows []types.Row
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("%w: table %q: %w", types.ErrCorruptDocument, name, err)
		}
		if rows == nil {
			return nil, fmt.Errorf("%w: table %q is null", types.ErrCorruptDocument, name)
		}
		for i, row := range rows {
			if row == nil {
				return nil, fmt.Errorf("%w: table %q row %d is null", types.ErrCorruptDocument, name, i)
			}
			for k, v := range row {
				row[k] = normalize(v)
			}
		}
		doc[name] = rows
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrCorruptDocument, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", types.ErrCorruptDocument)
	}
	return doc, nil
}

// Serialize implements Codec.
func (c JSON) Serialize(doc types.Document) ([]byte, error) {
	if doc == nil {
		doc = types.Document{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseRow decodes a single JSON object with the same number handling as
// JSON.Parse. It is used for rows and patches given as text.
func ParseRow(data []byte) (types.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var row types.Row
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidArgument, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", types.ErrInvalidArgument)
	}
	if row == nil {
		return nil, fmt.Errorf("%w: row is null", types.ErrInvalidArgument)
	}
	for k, v := range row {
		row[k] = normalize(v)
	}
	return row, nil
}

// normalize replaces json.Number values, recursively, with int64 or float64.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if !strings.ContainsAny(string(t), ".eE") {
			return t
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}
