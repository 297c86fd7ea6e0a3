package testsupport

import (
	"bytes"
	"encoding/json"
	"os"
)

// LoadFixture reads a test fixture file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// EqualJSON reports whether a and b encode the same JSON value, ignoring
// whitespace and key order.
func EqualJSON(a, b []byte) (bool, error) {
	var left, right any
	if err := json.Unmarshal(a, &left); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, &right); err != nil {
		return false, err
	}
	l, _ := json.Marshal(left)
	r, _ := json.Marshal(right)
	return bytes.Equal(l, r), nil
}
