package bcf

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// decodeDocument converts a grammar-valid value tree into a typed Document.
func decodeDocument(data any) (*Document, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return doc, nil
}

// ToValue converts a Document back into the JSON value tree accepted by
// Validate.
func ToValue(doc *Document) (any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return v, nil
}
