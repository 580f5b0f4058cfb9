package domain

// Document is an opaque structured payload with no fixed schema. It carries
// raw extraction results and audit before/after snapshots, preserved as-is
// and only interpreted by external consumers. Stored as JSONB.
type Document map[string]any

// GetString returns the value under key if it is a non-empty string.
func (d Document) GetString(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Copy returns a shallow copy of the document.
func (d Document) Copy() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
