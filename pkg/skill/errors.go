package skill

import "fmt"

// ErrorKind enumerates SkillParser/SkillLoader failure modes (spec §4.7).
type ErrorKind string

const (
	ErrFileNotFound            ErrorKind = "fileNotFound"
	ErrNoFrontmatterDelimiter  ErrorKind = "noFrontmatterDelimiter"
	ErrInvalidFrontmatterYAML  ErrorKind = "invalidFrontmatterYAML"
	ErrMissingRequiredField    ErrorKind = "missingRequiredField"
	ErrInvalidName             ErrorKind = "invalidName"
	ErrNameMismatch            ErrorKind = "nameMismatch"
	ErrSkillNotFound           ErrorKind = "skillNotFound"
)

// Error carries one of the ErrorKind discriminators plus a human-readable
// message naming the offending file/field.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("skill: %s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Is allows errors.Is(err, skill.SentinelSkillNotFound) style matching:
// any *Error target matches when its Kind equals e's Kind.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// Sentinel instances usable with errors.Is for kind-only comparisons.
var (
	SentinelFileNotFound           = &Error{Kind: ErrFileNotFound}
	SentinelNoFrontmatterDelimiter = &Error{Kind: ErrNoFrontmatterDelimiter}
	SentinelInvalidFrontmatterYAML = &Error{Kind: ErrInvalidFrontmatterYAML}
	SentinelMissingRequiredField   = &Error{Kind: ErrMissingRequiredField}
	SentinelInvalidName            = &Error{Kind: ErrInvalidName}
	SentinelNameMismatch           = &Error{Kind: ErrNameMismatch}
	SentinelSkillNotFound          = &Error{Kind: ErrSkillNotFound}
)
