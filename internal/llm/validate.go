package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds *jsonschema.Schema values keyed by Schema.Name.
var compiled sync.Map

// validateResponse checks raw against schema. A nil schema accepts anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	sch, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %s: %w", schema.Name, err)}
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(schema.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// The compiler wants plain decoded JSON, not Go literals like []string.
	buf, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", schema.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", schema.Name, err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", schema.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}
	actual, _ := compiled.LoadOrStore(schema.Name, sch)
	return actual.(*jsonschema.Schema), nil
}
