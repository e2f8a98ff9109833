package catalog

import (
	"bytes"
	_ "embed"
)

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the built-in demo catalog.
func Sample() (*Catalog, error) {
	return Load(bytes.NewReader(sampleYAML))
}
