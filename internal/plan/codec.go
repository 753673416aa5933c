package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Decode parses a single JSON object. Anything else, including trailing data,
// is ErrMalformedInput.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document must be a JSON object", ErrMalformedInput)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrMalformedInput)
	}
	return doc, nil
}

// Canonical is the byte form used for storage and fingerprinting: compact,
// object keys sorted, no HTML escaping, numbers written as received.
// Canonical(Decode(Canonical(d))) equals Canonical(d).
func Canonical(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
