package integration

import (
	"fmt"
	"time"

	"github.com/taogeht/reading-practice-app-sub002/internal/models"
)

// TestStaff generates unique staff credentials using timestamp
func TestStaff(suffix string) (email, password string) {
	ts := time.Now().Unix()
	email = fmt.Sprintf("teacher-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}

// AnimalPassword returns an animal picture password for seeding
func AnimalPassword(key string) models.VisualPasswordSpec {
	return models.VisualPasswordSpec{
		Type: models.VisualPasswordAnimal,
		Key:  key,
	}
}

// ColorShapePassword returns a color+shape picture password for seeding
func ColorShapePassword(color, shape string) models.VisualPasswordSpec {
	return models.VisualPasswordSpec{
		Type:  models.VisualPasswordColorShape,
		Color: color,
		Shape: shape,
	}
}
