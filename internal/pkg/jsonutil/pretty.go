package jsonutil

import (
	"bytes"
	"encoding/json"
)

// Pretty indents raw JSON. Input that does not parse is returned unchanged.
func Pretty(raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return raw
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw
	}
	return buf.Bytes()
}
