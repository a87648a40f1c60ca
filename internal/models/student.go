package models

import "time"

// Student represents a child profile selectable from the class roster.
type Student struct {
	ID          string `db:"id"`
	ClassID     string `db:"class_id"`
	DisplayName string `db:"display_name"`

	// Visual password configuration. VisualKey is set for animal/object,
	// VisualColor/VisualShape for color_shape.
	PasswordType VisualPasswordType `db:"visual_password_type"`
	VisualKey    *string            `db:"visual_key"`
	VisualColor  *string            `db:"visual_color"`
	VisualShape  *string            `db:"visual_shape"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Credential assembles the student's VisualPasswordSpec from its stored
// columns.
func (s *Student) Credential() VisualPasswordSpec {
	spec := VisualPasswordSpec{Type: s.PasswordType}
	if s.VisualKey != nil {
		spec.Key = *s.VisualKey
	}
	if s.VisualColor != nil {
		spec.Color = *s.VisualColor
	}
	if s.VisualShape != nil {
		spec.Shape = *s.VisualShape
	}
	return spec
}
