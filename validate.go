package bcf

import (
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/blert-io/bcf/i18n"
	"github.com/blert-io/bcf/internal/jsondup"
	"github.com/blert-io/bcf/schema"
)

// Mode selects the grammar strictness.
type Mode int

const (
	// ModeAuto is strict when a version is pinned and lax otherwise.
	ModeAuto Mode = iota
	// ModeStrict rejects undeclared properties, unknown action types and
	// unknown minor versions.
	ModeStrict
	// ModeLax accepts additional properties and unknown action types, and
	// validates unknown minor versions of a known major against the latest
	// known minor.
	ModeLax
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLax:
		return "lax"
	default:
		return "auto"
	}
}

// ValidateOptions configures Validate and its parsing variants.
type ValidateOptions struct {
	// Version pins validation to a known version. The document's version must
	// match it exactly. Zero means auto-detect.
	Version Version
	// Mode overrides the default strictness.
	Mode Mode
}

func (o ValidateOptions) strict() bool {
	switch o.Mode {
	case ModeStrict:
		return true
	case ModeLax:
		return false
	default:
		return !o.Version.IsZero()
	}
}

func firstOptions(opts []ValidateOptions) ValidateOptions {
	if len(opts) == 0 {
		return ValidateOptions{}
	}
	return opts[0]
}

// Result is the outcome of a validation.
type Result struct {
	Valid bool
	// Document is the typed document. Set only when Valid.
	Document *Document
	// Version is the version whose grammar accepted the document. In lax mode
	// this may be an older minor than the document's own version string.
	Version Version
	// Errors lists every violation of the first failing stage.
	Errors ValidationErrors
}

// Err returns the validation errors as an error, or nil when valid.
func (r Result) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}

func invalid(errs ...ValidationError) Result {
	return Result{Errors: errs}
}

// Validate checks a parsed document (a JSON-compatible value tree of
// map[string]any, []any, string, float64, bool and nil) against the grammar
// of its version and then against the semantic invariants. Validate never
// panics on malformed input.
func Validate(data any, opts ...ValidateOptions) Result {
	o := firstOptions(opts)
	strict := o.strict()

	v, verr, ok := resolveVersion(data, o, strict)
	if !ok {
		return invalid(verr)
	}

	g, err := Grammar(v, strict)
	if err != nil {
		return invalid(schemaError("/", CodeUnsupportedVersion, err.Error()))
	}
	if iss := g.Check(data, schema.Root()); len(iss) > 0 {
		return invalid(issuesToErrors(iss)...)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return invalid(schemaError("/", CodeParseError, err.Error()))
	}
	if errs := validateSemantics(doc, v); len(errs) > 0 {
		return invalid(errs...)
	}
	return Result{Valid: true, Document: doc, Version: v}
}

// ParseAndValidate parses JSON text and validates it. A parse failure yields
// a single schema error at "/". In strict mode duplicate object keys are
// reported as schema errors before the grammar runs.
func ParseAndValidate(text []byte, opts ...ValidateOptions) Result {
	var data any
	if err := json.Unmarshal(text, &data); err != nil {
		return invalid(schemaError("/", CodeParseError, "Invalid JSON: "+err.Error()))
	}
	o := firstOptions(opts)
	if o.strict() {
		dups, err := jsondup.Find(text)
		if err != nil {
			return invalid(schemaError("/", CodeParseError, "Invalid JSON: "+err.Error()))
		}
		if len(dups) > 0 {
			errs := make(ValidationErrors, 0, len(dups))
			for _, d := range dups {
				errs = append(errs, schemaError(d.Path, schema.CodeDuplicateKey,
					i18n.T(schema.CodeDuplicateKey, map[string]string{"key": d.Key})))
			}
			return invalid(errs...)
		}
	}
	return Validate(data, o)
}

// resolveVersion picks the grammar version for data. The returned error is
// meaningful only when ok is false.
func resolveVersion(data any, o ValidateOptions, strict bool) (Version, ValidationError, bool) {
	raw, present := documentVersion(data)

	if !o.Version.IsZero() {
		if !IsSupported(o.Version) {
			return Version{}, schemaError("/version", CodeUnsupportedVersion,
				fmt.Sprintf("Unsupported BCF version: %q. Supported versions: %s", o.Version.String(), supportedList())), false
		}
		parsed, ok := ParseVersion(raw)
		switch {
		case !ok || !IsSupported(parsed):
			shown := strconv.Quote(raw)
			if !present {
				shown = `"null"`
			}
			return Version{}, schemaError("/version", CodeVersionMismatch,
				fmt.Sprintf("Document version %s is not supported. Expected %q.", shown, o.Version.String())), false
		case parsed != o.Version:
			return Version{}, schemaError("/version", CodeVersionMismatch,
				fmt.Sprintf("Document version %q does not match expected version %q.", raw, o.Version.String())), false
		}
		return o.Version, ValidationError{}, true
	}

	if !present {
		return Version{}, schemaError("/version", CodeMissingVersion, "Missing required field: version"), false
	}
	parsed, ok := ParseVersion(raw)
	if ok && IsSupported(parsed) {
		return parsed, ValidationError{}, true
	}
	if ok && !strict {
		// Forward compatibility: a newer minor of a known major is checked
		// against the latest known minor's lax grammar.
		if latest, found := LatestByMajor(parsed.Major); found {
			return latest, ValidationError{}, true
		}
	}
	return Version{}, schemaError("/version", CodeUnsupportedVersion,
		fmt.Sprintf("Unsupported BCF version: %q. Supported versions: %s", raw, supportedList())), false
}

// documentVersion returns the document's version string. present is false
// when data is not an object or the field is missing or not a string.
func documentVersion(data any) (string, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return "", false
	}
	s, ok := m["version"].(string)
	return s, ok
}

func issuesToErrors(iss schema.Issues) ValidationErrors {
	out := make(ValidationErrors, 0, len(iss))
	for _, it := range iss {
		out = append(out, schemaError(it.Path, it.Code, it.Message))
	}
	return out
}
