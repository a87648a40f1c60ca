package models

import "fmt"

// VisualPasswordType identifies which selector a student sees at login.
// Set by a guardian or teacher when the student is created; immutable from
// the student's perspective during login.
type VisualPasswordType string

const (
	VisualPasswordAnimal     VisualPasswordType = "animal"
	VisualPasswordObject     VisualPasswordType = "object"
	VisualPasswordColorShape VisualPasswordType = "color_shape"
)

// ValidVisualPasswordType reports whether t is one of the enumerated types.
// Boundary code (handlers, repositories) must check this before handing the
// type to catalog or comparison logic, which treat an unknown type as a
// programming error.
func ValidVisualPasswordType(t VisualPasswordType) bool {
	switch t {
	case VisualPasswordAnimal, VisualPasswordObject, VisualPasswordColorShape:
		return true
	}
	return false
}

// VisualPasswordSpec is a student's configured credential. For animal/object
// types only Key is set; for color_shape only Color and Shape are set.
type VisualPasswordSpec struct {
	Type  VisualPasswordType
	Key   string
	Color string
	Shape string
}

// Submission is a guess coming from the login screen, shaped like the spec it
// is compared against.
type Submission struct {
	Type  VisualPasswordType
	Key   string
	Color string
	Shape string
}

// Matches compares a submission against the spec with exact key equality.
// A color_shape spec is satisfied only when BOTH components match; partial
// matches are failures. A submission whose type differs from the spec's type
// never matches (the student was shown the selector for the spec's type, so a
// mismatched type is just a wrong guess from the verifier's point of view).
//
// Panics if the spec carries an unrecognized type: specs come from the
// credential store whose column is constrained to the enumerated values, so
// that path indicates corrupted wiring, not user input.
func (s VisualPasswordSpec) Matches(sub Submission) bool {
	if sub.Type != s.Type {
		return false
	}
	switch s.Type {
	case VisualPasswordAnimal, VisualPasswordObject:
		return sub.Key == s.Key
	case VisualPasswordColorShape:
		return sub.Color == s.Color && sub.Shape == s.Shape
	default:
		panic(fmt.Sprintf("visual password spec has unknown type %q", s.Type))
	}
}

// Validate checks that the submission's populated fields agree with its type.
// A malformed shape (e.g. a color_shape submission missing its shape key) is
// a defect in the caller, surfaced as ErrBadRequest at the HTTP boundary.
func (s Submission) Validate() error {
	switch s.Type {
	case VisualPasswordAnimal, VisualPasswordObject:
		if s.Key == "" || s.Color != "" || s.Shape != "" {
			return fmt.Errorf("%w: %s submission must carry exactly one key", ErrBadRequest, s.Type)
		}
	case VisualPasswordColorShape:
		if s.Color == "" || s.Shape == "" || s.Key != "" {
			return fmt.Errorf("%w: color_shape submission must carry a color and a shape", ErrBadRequest)
		}
	default:
		return fmt.Errorf("%w: unknown visual password type %q", ErrBadRequest, s.Type)
	}
	return nil
}
