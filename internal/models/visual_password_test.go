package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

func TestSpecMatches_SingleKey(t *testing.T) {
	spec := models.VisualPasswordSpec{Type: models.VisualPasswordAnimal, Key: "cat"}

	assert.True(t, spec.Matches(models.Submission{Type: models.VisualPasswordAnimal, Key: "cat"}))
	assert.False(t, spec.Matches(models.Submission{Type: models.VisualPasswordAnimal, Key: "dog"}))
	// Exact equality only, no case folding
	assert.False(t, spec.Matches(models.Submission{Type: models.VisualPasswordAnimal, Key: "Cat"}))
	// A submission for a different selector is just a wrong guess
	assert.False(t, spec.Matches(models.Submission{Type: models.VisualPasswordObject, Key: "cat"}))
}

func TestSpecMatches_ColorShapeRequiresBothComponents(t *testing.T) {
	spec := models.VisualPasswordSpec{
		Type:  models.VisualPasswordColorShape,
		Color: "blue",
		Shape: "star",
	}

	assert.True(t, spec.Matches(models.Submission{
		Type: models.VisualPasswordColorShape, Color: "blue", Shape: "star",
	}))
	assert.False(t, spec.Matches(models.Submission{
		Type: models.VisualPasswordColorShape, Color: "blue", Shape: "circle",
	}), "correct color with wrong shape must fail")
	assert.False(t, spec.Matches(models.Submission{
		Type: models.VisualPasswordColorShape, Color: "red", Shape: "star",
	}), "correct shape with wrong color must fail")
}

func TestSpecMatches_PanicsOnUnknownSpecType(t *testing.T) {
	spec := models.VisualPasswordSpec{Type: "telepathy", Key: "x"}
	assert.Panics(t, func() {
		spec.Matches(models.Submission{Type: "telepathy", Key: "x"})
	})
}

func TestSubmissionValidate(t *testing.T) {
	valid := []models.Submission{
		{Type: models.VisualPasswordAnimal, Key: "cat"},
		{Type: models.VisualPasswordObject, Key: "ball"},
		{Type: models.VisualPasswordColorShape, Color: "blue", Shape: "star"},
	}
	for _, sub := range valid {
		assert.NoError(t, sub.Validate())
	}

	malformed := []models.Submission{
		{Type: models.VisualPasswordAnimal},                                       // missing key
		{Type: models.VisualPasswordAnimal, Key: "cat", Shape: "star"},            // extra component
		{Type: models.VisualPasswordColorShape, Color: "blue"},                    // missing shape
		{Type: models.VisualPasswordColorShape, Shape: "star"},                    // missing color
		{Type: models.VisualPasswordColorShape, Color: "blue", Shape: "star", Key: "cat"},
		{Type: "telepathy", Key: "x"},
	}
	for _, sub := range malformed {
		assert.ErrorIs(t, sub.Validate(), models.ErrBadRequest)
	}
}

func TestValidVisualPasswordType(t *testing.T) {
	assert.True(t, models.ValidVisualPasswordType(models.VisualPasswordAnimal))
	assert.True(t, models.ValidVisualPasswordType(models.VisualPasswordObject))
	assert.True(t, models.ValidVisualPasswordType(models.VisualPasswordColorShape))
	assert.False(t, models.ValidVisualPasswordType("animal_shape"))
	assert.False(t, models.ValidVisualPasswordType(""))
}

func TestStudentCredential(t *testing.T) {
	key := "cat"
	student := models.Student{PasswordType: models.VisualPasswordAnimal, VisualKey: &key}
	assert.Equal(t, models.VisualPasswordSpec{
		Type: models.VisualPasswordAnimal, Key: "cat",
	}, student.Credential())

	color, shape := "blue", "star"
	student = models.Student{
		PasswordType: models.VisualPasswordColorShape,
		VisualColor:  &color,
		VisualShape:  &shape,
	}
	assert.Equal(t, models.VisualPasswordSpec{
		Type: models.VisualPasswordColorShape, Color: "blue", Shape: "star",
	}, student.Credential())
}
