package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devblok/sxs/util/xmltree"
)

// package errors
var (
	ErrMissingBlock        = errors.New("required block missing")
	ErrMissingAttribute    = xmltree.ErrMissingAttribute
	ErrInvalidValue        = errors.New("invalid value")
	ErrDuplicateID         = errors.New("duplicate id")
	ErrReservedID          = errors.New("id is reserved")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrCircularDependency  = errors.New("circular dependency")
	ErrNotLoaded           = errors.New("scene not loaded")
)

// Sentinel IDs with special resolution semantics
const (
	Inherit = "inherit"
	None    = "none"
)

// ParseError is a fatal load error. It names the offending tag and ID,
// and for resolution failures the chain of IDs that led to it.
type ParseError struct {
	Tag   string
	ID    string
	Chain []string
	Err   error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("<" + e.Tag + ">")
	if e.ID != "" {
		sb.WriteString(" '" + e.ID + "'")
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	if len(e.Chain) > 0 {
		sb.WriteString(" (" + strings.Join(e.Chain, " -> ") + ")")
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Resolution reports whether the error is a resource resolution failure:
// a dangling reference, a duplicate or reserved ID, or a cycle
func (e *ParseError) Resolution() bool {
	for _, target := range []error{ErrUnresolvedReference, ErrDuplicateID, ErrReservedID, ErrCircularDependency} {
		if errors.Is(e.Err, target) {
			return true
		}
	}
	return false
}

func parseErr(tag, id string, err error) *ParseError {
	return &ParseError{Tag: tag, ID: id, Err: err}
}

func parseErrf(tag, id string, sentinel error, format string, args ...interface{}) *ParseError {
	return &ParseError{Tag: tag, ID: id, Err: fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)}
}

// Warning is a non-fatal diagnostic. Loading continues with the
// fallback stated in the message.
type Warning struct {
	Tag     string
	ID      string
	Message string
}

func (w Warning) String() string {
	if w.ID == "" {
		return fmt.Sprintf("<%s>: %s", w.Tag, w.Message)
	}
	return fmt.Sprintf("<%s> '%s': %s", w.Tag, w.ID, w.Message)
}
