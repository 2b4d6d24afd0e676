// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package auth

import (
	"bytes"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"github.com/samber/oops"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// RequestKind names a validated request shape.
type RequestKind string

// Validated request kinds.
const (
	RequestRegister RequestKind = "register"
	RequestUpdate   RequestKind = "update"
)

// RequestKinds lists every kind with a schema, in a stable order.
func RequestKinds() []RequestKind {
	return []RequestKind{RequestRegister, RequestUpdate}
}

// RegisterRequest is the body accepted by Register.
type RegisterRequest struct {
	Email     string `json:"email" jsonschema:"format=email,minLength=3,maxLength=254"`
	Password  string `json:"password" jsonschema:"minLength=6,maxLength=72"`
	FirstName string `json:"firstName,omitempty" jsonschema:"maxLength=100"`
	LastName  string `json:"lastName,omitempty" jsonschema:"maxLength=100"`
}

// UpdateRequest is the body accepted by Update. Only present fields change.
type UpdateRequest struct {
	FirstName *string `json:"firstName,omitempty" jsonschema:"minLength=1,maxLength=100"`
	LastName  *string `json:"lastName,omitempty" jsonschema:"maxLength=100"`
}

// ValidatorConfig points at operator-supplied schema files that replace the
// built-in rules. Files may be JSON or YAML.
type ValidatorConfig struct {
	RegisterSchema string `koanf:"register_schema"`
	UpdateSchema   string `koanf:"update_schema"`
}

// Validator checks request bodies against JSON Schemas.
type Validator struct {
	schemas map[RequestKind]*jschema.Schema
	printer *message.Printer
}

// NewValidator compiles the built-in schemas, replacing any kind that cfg
// supplies a file for.
func NewValidator(cfg ValidatorConfig) (*Validator, error) {
	files := map[RequestKind]string{
		RequestRegister: cfg.RegisterSchema,
		RequestUpdate:   cfg.UpdateSchema,
	}

	v := &Validator{
		schemas: make(map[RequestKind]*jschema.Schema, len(files)),
		printer: message.NewPrinter(language.English),
	}
	for _, k := range RequestKinds() {
		var (
			doc any
			err error
		)
		if path := files[k]; path != "" {
			doc, err = loadSchemaFile(path)
		} else {
			doc, err = builtinSchemaDocument(k)
		}
		if err != nil {
			return nil, oops.Code("VALIDATOR_INIT_FAILED").With("kind", string(k)).Wrap(err)
		}

		sch, err := compileSchema(string(k), doc)
		if err != nil {
			return nil, oops.Code("VALIDATOR_INIT_FAILED").With("kind", string(k)).Wrap(err)
		}
		v.schemas[k] = sch
	}
	return v, nil
}

// Validate reports every violation of the schema for kind in doc, which must
// be a decoded JSON value. An empty result means the document is valid.
func (v *Validator) Validate(k RequestKind, doc any) []Violation {
	sch, ok := v.schemas[k]
	if !ok {
		return []Violation{{Message: "unknown request kind " + string(k)}}
	}

	err := sch.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jschema.ValidationError
	if !asValidationError(err, &verr) {
		return []Violation{{Message: err.Error()}}
	}

	var out []Violation
	v.collect(verr, &out)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// ValidateJSON decodes body and validates it. Malformed JSON is reported as a
// single violation.
func (v *Validator) ValidateJSON(k RequestKind, body []byte) (any, []Violation) {
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return nil, []Violation{{Message: "body must be valid JSON"}}
	}
	return doc, v.Validate(k, doc)
}

func (v *Validator) collect(verr *jschema.ValidationError, out *[]Violation) {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			v.collect(cause, out)
		}
		return
	}

	base := strings.Join(verr.InstanceLocation, ".")
	switch ek := verr.ErrorKind.(type) {
	case *kind.Required:
		for _, name := range ek.Missing {
			*out = append(*out, Violation{Field: joinField(base, name), Message: "is required"})
		}
	case *kind.AdditionalProperties:
		for _, name := range ek.Properties {
			*out = append(*out, Violation{Field: joinField(base, name), Message: "is not allowed"})
		}
	default:
		*out = append(*out, Violation{Field: base, Message: verr.ErrorKind.LocalizedString(v.printer)})
	}
}

func joinField(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func asValidationError(err error, target **jschema.ValidationError) bool {
	verr, ok := err.(*jschema.ValidationError) //nolint:errorlint // Validate returns the concrete type
	if ok {
		*target = verr
	}
	return ok
}

// GenerateSchema returns the built-in JSON Schema for kind.
func GenerateSchema(k RequestKind) ([]byte, error) {
	schema, err := reflectSchema(k)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_GENERATE_FAILED").With("kind", string(k)).Wrap(err)
	}
	return data, nil
}

func reflectSchema(k RequestKind) (*jsonschema.Schema, error) {
	r := jsonschema.Reflector{DoNotReference: true}

	var schema *jsonschema.Schema
	switch k {
	case RequestRegister:
		schema = r.Reflect(&RegisterRequest{})
		schema.Title = "GiftLink register request"
	case RequestUpdate:
		schema = r.Reflect(&UpdateRequest{})
		schema.Title = "GiftLink profile update request"
	default:
		return nil, oops.Code("SCHEMA_GENERATE_FAILED").Errorf("unknown request kind %q", k)
	}
	schema.ID = jsonschema.ID(SchemaID(k))
	return schema, nil
}

// SchemaID returns the $id of the schema for kind.
func SchemaID(k RequestKind) string {
	return "https://giftlink.dev/schemas/" + string(k) + ".schema.json"
}

func builtinSchemaDocument(k RequestKind) (any, error) {
	data, err := GenerateSchema(k)
	if err != nil {
		return nil, err
	}
	doc, err := jschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, oops.Code("SCHEMA_GENERATE_FAILED").Wrap(err)
	}
	return doc, nil
}

func loadSchemaFile(path string) (any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		return nil, oops.Code("SCHEMA_READ_FAILED").With("path", path).Wrap(err)
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("SCHEMA_READ_FAILED").With("path", path).Wrap(err)
	}
	return toJSONTypes(doc), nil
}

func compileSchema(name string, doc any) (*jschema.Schema, error) {
	c := jschema.NewCompiler()
	c.AssertFormat()
	url := name + ".schema.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, oops.Code("SCHEMA_COMPILE_FAILED").Wrap(err)
	}
	return sch, nil
}

// toJSONTypes normalises YAML-decoded values so the schema compiler accepts
// them. Integers become json.Number like the JSON decoder produces.
func toJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toJSONTypes(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toJSONTypes(item)
		}
		return out
	case int:
		return json.Number(jsonNumber(val))
	case int64:
		return json.Number(jsonNumber(val))
	case uint64:
		return json.Number(jsonNumber(val))
	case float64:
		return json.Number(jsonNumber(val))
	default:
		return val
	}
}

func jsonNumber(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "0"
	}
	return string(b)
}
