// ABOUTME: Exercise model and Category enum for strength and cardio tracking.
// ABOUTME: Defines the muscle-group categories exercises are filed under.
package models

import (
	"github.com/google/uuid"
)

// Category is the muscle group or training style an exercise belongs to.
type Category string

const (
	CategoryChest     Category = "chest"
	CategoryBack      Category = "back"
	CategoryLegs      Category = "legs"
	CategoryShoulders Category = "shoulders"
	CategoryArms      Category = "arms"
	CategoryCore      Category = "core"
	CategoryCardio    Category = "cardio"
	CategoryFullBody  Category = "full_body"
	CategoryOther     Category = "other"
)

// CategoryLabels maps categories to their display names.
var CategoryLabels = map[Category]string{
	CategoryChest:     "Chest",
	CategoryBack:      "Back",
	CategoryLegs:      "Legs",
	CategoryShoulders: "Shoulders",
	CategoryArms:      "Arms",
	CategoryCore:      "Core",
	CategoryCardio:    "Cardio",
	CategoryFullBody:  "Full Body",
	CategoryOther:     "Other",
}

// AllCategories returns all valid categories in display order.
var AllCategories = []Category{
	CategoryChest, CategoryBack, CategoryLegs, CategoryShoulders,
	CategoryArms, CategoryCore, CategoryCardio, CategoryFullBody, CategoryOther,
}

// IsValidCategory checks if a string is a valid category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Exercise is a movement that can be logged in a workout or listed in a template.
// Workouts and templates embed a copy, so an Exercise is never referenced by ID
// once it has been used.
type Exercise struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	IsCustom    bool     `json:"is_custom" yaml:"is_custom"`
	Description *string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewExercise creates a user-defined exercise with a generated ID.
func NewExercise(name string, category Category) *Exercise {
	return &Exercise{
		ID:       uuid.NewString(),
		Name:     name,
		Category: category,
		IsCustom: true,
	}
}

// WithDescription sets the exercise description.
func (e *Exercise) WithDescription(desc string) *Exercise {
	e.Description = &desc
	return e
}

// RecordID implements storage.Record.
func (e Exercise) RecordID() string { return e.ID }
