package auth

import (
	"fmt"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// CatalogEntry is a displayable candidate on the visual password selector.
type CatalogEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Glyph string `json:"glyph"`
}

// Catalogs are compiled-in and ordered; the selector renders them in this
// order so UI snapshots stay reproducible.
var animalCatalog = []CatalogEntry{
	{ID: "cat", Label: "Cat", Glyph: "🐱"},
	{ID: "dog", Label: "Dog", Glyph: "🐶"},
	{ID: "elephant", Label: "Elephant", Glyph: "🐘"},
	{ID: "fish", Label: "Fish", Glyph: "🐟"},
	{ID: "lion", Label: "Lion", Glyph: "🦁"},
	{ID: "monkey", Label: "Monkey", Glyph: "🐵"},
	{ID: "penguin", Label: "Penguin", Glyph: "🐧"},
	{ID: "rabbit", Label: "Rabbit", Glyph: "🐰"},
	{ID: "turtle", Label: "Turtle", Glyph: "🐢"},
}

var objectCatalog = []CatalogEntry{
	{ID: "ball", Label: "Ball", Glyph: "⚽"},
	{ID: "book", Label: "Book", Glyph: "📖"},
	{ID: "car", Label: "Car", Glyph: "🚗"},
	{ID: "crayon", Label: "Crayon", Glyph: "🖍️"},
	{ID: "house", Label: "House", Glyph: "🏠"},
	{ID: "kite", Label: "Kite", Glyph: "🪁"},
	{ID: "rocket", Label: "Rocket", Glyph: "🚀"},
	{ID: "umbrella", Label: "Umbrella", Glyph: "☂️"},
}

var colorCatalog = []CatalogEntry{
	{ID: "red", Label: "Red", Glyph: "🟥"},
	{ID: "orange", Label: "Orange", Glyph: "🟧"},
	{ID: "yellow", Label: "Yellow", Glyph: "🟨"},
	{ID: "green", Label: "Green", Glyph: "🟩"},
	{ID: "blue", Label: "Blue", Glyph: "🟦"},
	{ID: "purple", Label: "Purple", Glyph: "🟪"},
}

var shapeCatalog = []CatalogEntry{
	{ID: "circle", Label: "Circle", Glyph: "⚪"},
	{ID: "square", Label: "Square", Glyph: "⬜"},
	{ID: "triangle", Label: "Triangle", Glyph: "🔺"},
	{ID: "star", Label: "Star", Glyph: "⭐"},
	{ID: "heart", Label: "Heart", Glyph: "❤️"},
	{ID: "diamond", Label: "Diamond", Glyph: "🔷"},
}

// Options returns the fixed ordered option list for a visual password type.
// For color_shape the selector is two independent pickers; use Colors and
// Shapes for those. Panics on an unrecognized type: callers validate the enum
// at the boundary, so reaching the default branch is a programming error.
func Options(t models.VisualPasswordType) []CatalogEntry {
	switch t {
	case models.VisualPasswordAnimal:
		return cloneCatalog(animalCatalog)
	case models.VisualPasswordObject:
		return cloneCatalog(objectCatalog)
	default:
		panic(fmt.Sprintf("no option catalog for visual password type %q", t))
	}
}

// Colors returns the color picker catalog for the color_shape type.
func Colors() []CatalogEntry {
	return cloneCatalog(colorCatalog)
}

// Shapes returns the shape picker catalog for the color_shape type.
func Shapes() []CatalogEntry {
	return cloneCatalog(shapeCatalog)
}

// HasKey reports whether key is a member of the catalog for the given type.
// Used when provisioning a student's credential so a spec can never reference
// an option the selector will not display.
func HasKey(t models.VisualPasswordType, key string) bool {
	switch t {
	case models.VisualPasswordAnimal:
		return containsKey(animalCatalog, key)
	case models.VisualPasswordObject:
		return containsKey(objectCatalog, key)
	default:
		panic(fmt.Sprintf("no option catalog for visual password type %q", t))
	}
}

// HasColor reports whether key is in the color catalog.
func HasColor(key string) bool { return containsKey(colorCatalog, key) }

// HasShape reports whether key is in the shape catalog.
func HasShape(key string) bool { return containsKey(shapeCatalog, key) }

func containsKey(catalog []CatalogEntry, key string) bool {
	for _, e := range catalog {
		if e.ID == key {
			return true
		}
	}
	return false
}

// cloneCatalog copies the backing slice so callers cannot mutate the
// compiled-in tables.
func cloneCatalog(catalog []CatalogEntry) []CatalogEntry {
	out := make([]CatalogEntry, len(catalog))
	copy(out, catalog)
	return out
}
