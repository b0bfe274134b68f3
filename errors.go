package bcf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes validation errors.
type ErrorType string

const (
	// ErrorTypeSchema marks structural problems: grammar violations, version
	// detection failures and parse errors. The document is malformed.
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeSemantic marks violated cross-referential invariants. The
	// document is well-formed but inconsistent.
	ErrorTypeSemantic ErrorType = "semantic"
)

// Semantic and version error codes. Schema errors carry the grammar codes
// from the schema package.
const (
	CodeMissingVersion     = "missing_version"
	CodeUnsupportedVersion = "unsupported_version"
	CodeVersionMismatch    = "version_mismatch"
	CodeParseError         = "parse_error"
	CodeDuplicateID        = "duplicate_id"
	CodeIDConflict         = "id_conflict"
	CodeUnknownReference   = "unknown_reference"
	CodeDuplicateTick      = "duplicate_tick"
	CodeOutOfOrder         = "out_of_order"
	CodeOutOfBounds        = "out_of_bounds"
	CodeInvalidRange       = "invalid_range"
	CodeActorMismatch      = "actor_mismatch"
	CodeDuplicateAction    = "duplicate_action"
	CodeSpecCost           = "spec_cost"
	CodeLifecycle          = "npc_lifecycle"
)

// ValidationError is a single validation failure.
type ValidationError struct {
	// Path is a JSON Pointer to the offending value
	// (e.g. "/timeline/ticks/0/cells/0/actorId").
	Path    string    `json:"path"`
	Message string    `json:"message"`
	Type    ErrorType `json:"type"`
	// Code is a stable machine-readable identifier.
	Code string `json:"code,omitempty"`
}

// String renders the error for direct display as "path: message".
func (e ValidationError) String() string {
	return e.Path + ": " + e.Message
}

// ValidationErrors is a collection of validation errors that implements
// error.
type ValidationErrors []ValidationError

// Error summarizes the first few errors.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(errs)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(errs[i].String())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// OfType returns the subset of errors with the given type.
func (errs ValidationErrors) OfType(t ErrorType) ValidationErrors {
	var out ValidationErrors
	for _, e := range errs {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// AsValidationErrors extracts ValidationErrors from an error using
// errors.As internally.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	if err == nil {
		return nil, false
	}
	var errs ValidationErrors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

func schemaError(path, code, msg string) ValidationError {
	return ValidationError{Path: path, Message: msg, Type: ErrorTypeSchema, Code: code}
}
