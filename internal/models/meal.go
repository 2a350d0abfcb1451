// ABOUTME: MealEntry, Ingredient and Macros models for nutrition logging.
// ABOUTME: Macro fields are optional pointers so "no data" differs from zero.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Macros holds the nutrition of an ingredient or a total. A nil field means
// the value is unknown, which is not the same as zero.
type Macros struct {
	Calories *float64 `json:"calories,omitempty" yaml:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty" yaml:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty" yaml:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty" yaml:"fat,omitempty"`
}

// Float returns a pointer to v, for building Macros literals.
func Float(v float64) *float64 {
	return &v
}

// IsEmpty reports whether no macro field is set.
func (m Macros) IsEmpty() bool {
	return m.Calories == nil && m.Protein == nil && m.Carbs == nil && m.Fat == nil
}

// Clone returns a deep copy so callers can mutate fields independently.
func (m Macros) Clone() Macros {
	return Macros{
		Calories: clonePtr(m.Calories),
		Protein:  clonePtr(m.Protein),
		Carbs:    clonePtr(m.Carbs),
		Fat:      clonePtr(m.Fat),
	}
}

func clonePtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ingredient is one component of a meal. Weight is in grams.
type Ingredient struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
	Macros *Macros `json:"macros,omitempty" yaml:"macros,omitempty"`
}

// NewIngredient creates an ingredient with a generated ID.
func NewIngredient(name string, weight float64) *Ingredient {
	return &Ingredient{
		ID:     uuid.NewString(),
		Name:   name,
		Weight: weight,
	}
}

// WithMacros sets the ingredient's macros.
func (i *Ingredient) WithMacros(m Macros) *Ingredient {
	i.Macros = &m
	return i
}

// Clone returns a deep copy of the ingredient.
func (i Ingredient) Clone() Ingredient {
	out := i
	if i.Macros != nil {
		m := i.Macros.Clone()
		out.Macros = &m
	}
	return out
}

// MealEntry is a logged meal.
type MealEntry struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Date        time.Time    `json:"date" yaml:"date"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Notes       *string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	ImageURI    *string      `json:"image_uri,omitempty" yaml:"image_uri,omitempty"`
	Multiplier  *float64     `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// NewMealEntry creates a meal with a generated ID and the current time.
func NewMealEntry(name string) *MealEntry {
	return &MealEntry{
		ID:          uuid.NewString(),
		Name:        name,
		Date:        time.Now(),
		Ingredients: []Ingredient{},
	}
}

// WithDate sets a custom meal date.
func (m *MealEntry) WithDate(t time.Time) *MealEntry {
	m.Date = t
	return m
}

// WithNotes sets notes on the meal.
func (m *MealEntry) WithNotes(notes string) *MealEntry {
	m.Notes = &notes
	return m
}

// WithImageURI records the photo the meal was analyzed from.
func (m *MealEntry) WithImageURI(uri string) *MealEntry {
	m.ImageURI = &uri
	return m
}

// WithIngredients appends ingredients to the meal.
func (m *MealEntry) WithIngredients(ings ...Ingredient) *MealEntry {
	m.Ingredients = append(m.Ingredients, ings...)
	return m
}

// EffectiveMultiplier returns the portion multiplier, defaulting to 1.
func (m MealEntry) EffectiveMultiplier() float64 {
	if m.Multiplier == nil || *m.Multiplier <= 0 {
		return 1
	}
	return *m.Multiplier
}

// Clone returns a deep copy of the meal.
func (m MealEntry) Clone() MealEntry {
	out := m
	out.Ingredients = make([]Ingredient, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		out.Ingredients[i] = ing.Clone()
	}
	out.Multiplier = clonePtr(m.Multiplier)
	return out
}

// RecordID implements storage.Record.
func (m MealEntry) RecordID() string { return m.ID }

// OccurredAt implements calendar.Dated.
func (m MealEntry) OccurredAt() time.Time { return m.Date }
