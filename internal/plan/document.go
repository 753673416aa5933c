package plan

// Field names the core interprets. Every other member is opaque.
const (
	FieldObjectID     = "objectId"
	FieldCreationDate = "creationDate"
)

// Document is a decoded plan. Numbers are held as json.Number so a document
// re-encodes to the same text it was decoded from.
type Document map[string]any

// ID returns the objectId member when it is a non-empty string.
func (d Document) ID() (string, bool) {
	id, ok := d[FieldObjectID].(string)
	return id, ok && id != ""
}

// clone copies the top level only; nested values are shared.
func (d Document) clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Record is a stored plan as seen by callers: the exact stored bytes, their
// decoded form and the fingerprint derived from the bytes.
type Record struct {
	Key      string
	Body     []byte
	Document Document
	ETag     string
}
