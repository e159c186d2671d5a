package chart

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

//go:embed figure.schema.json
var figureSchemaJSON []byte

const figureSchemaURL = "figure.schema.json"

var ErrInvalidFigure = errors.New("chart: invalid figure")

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func figureSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(figureSchemaURL, bytes.NewReader(figureSchemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schemaCompiled, schemaErr = compiler.Compile(figureSchemaURL)
	})
	return schemaCompiled, schemaErr
}

// Validate checks encoded figure JSON: first its shape against the embedded
// schema, then that slider steps and frames line up one to one, in order.
func Validate(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidFigure)
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("%w: malformed json", ErrInvalidFigure)
	}
	sch, err := figureSchema()
	if err != nil {
		return fmt.Errorf("compile figure schema: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFigure, err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFigure, err)
	}
	return checkStepsMatchFrames(gjson.ParseBytes(raw))
}

// ValidateSpec encodes spec and validates the result.
func ValidateSpec(spec ChartSpec) ([]byte, error) {
	raw, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func checkStepsMatchFrames(doc gjson.Result) error {
	names := doc.Get("frames.#.name").Array()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n.String()] {
			return fmt.Errorf("%w: duplicate frame %q", ErrInvalidFigure, n.String())
		}
		seen[n.String()] = true
	}
	steps := doc.Get("layout.sliders.0.steps").Array()
	if len(steps) != len(names) {
		return fmt.Errorf("%w: %d slider steps for %d frames", ErrInvalidFigure, len(steps), len(names))
	}
	for i, step := range steps {
		want := names[i].String()
		if label := step.Get("label").String(); label != want {
			return fmt.Errorf("%w: step %d label %q, frame %q", ErrInvalidFigure, i, label, want)
		}
		target := step.Get("args.0")
		if !target.IsArray() || len(target.Array()) != 1 || target.Array()[0].String() != want {
			return fmt.Errorf("%w: step %d does not target frame %q", ErrInvalidFigure, i, want)
		}
	}
	return nil
}
