package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is one of the eight life domains a goal belongs to.
type Category string

const (
	CategoryCareer       Category = "career"
	CategoryFinance      Category = "finance"
	CategoryHealth       Category = "health"
	CategoryFamily       Category = "family"
	CategoryRelationship Category = "relationship"
	CategorySpirituality Category = "spirituality"
	CategoryRecreation   Category = "recreation"
	CategoryEnvironment  Category = "environment"

	// CategoryRemaining only appears in aggregated output as the
	// unallocated part of the wheel. It is never stored.
	CategoryRemaining Category = "remaining"
)

// Categories lists the stored categories in display order.
var Categories = [...]Category{
	CategoryCareer,
	CategoryFinance,
	CategoryHealth,
	CategoryFamily,
	CategoryRelationship,
	CategorySpirituality,
	CategoryRecreation,
	CategoryEnvironment,
}

// CategoryCount is the number of stored categories. Every category weighs
// 1/CategoryCount of the overall score.
const CategoryCount = len(Categories)

var categoryColors = map[Category]string{
	CategoryCareer:       "#4ECDC4",
	CategoryFinance:      "#45B7D1",
	CategoryHealth:       "#FF6B6B",
	CategoryFamily:       "#96CEB4",
	CategoryRelationship: "#FFEEAD",
	CategorySpirituality: "#D4A5A5",
	CategoryRecreation:   "#9B9B9B",
	CategoryEnvironment:  "#A8E6CF",
	CategoryRemaining:    "#D3D3D3",
}

var ErrUnknownCategory = errors.New("unknown category")

// ParseCategory accepts the stored name of a category, ignoring case.
// "remaining" is rejected since it cannot be stored.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCategory, s)
}

// Valid reports whether c is one of the eight stored categories.
func (c Category) Valid() bool {
	return c.Index() >= 0
}

// Index returns the display position of c, or -1 when c is not a stored
// category.
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

func (c Category) Color() string {
	return categoryColors[c]
}

// Label is the display name, e.g. "Career".
func (c Category) Label() string {
	return cases.Title(language.English).String(string(c))
}

func (c Category) String() string {
	return string(c)
}
