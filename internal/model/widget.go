package model

import (
	"errors"
	"fmt"
)

const (
	WidgetCalories = "calories"
	WidgetMacros   = "macros"
	WidgetWeight   = "weight"
	WidgetWorkouts = "workouts"
	WidgetGoals    = "goals"
	WidgetRecipes  = "recipes"
)

// Widgets lists known dashboard widgets in their default order.
var Widgets = []string{
	WidgetCalories, WidgetMacros, WidgetWeight, WidgetWorkouts, WidgetGoals, WidgetRecipes,
}

var (
	ErrUnknownWidget    = errors.New("unknown widget")
	ErrDuplicateWidget  = errors.New("duplicate widget")
	ErrIncompleteLayout = errors.New("layout must contain every widget")
	ErrWidgetIndex      = errors.New("widget index out of range")
)

type WidgetSlot struct {
	UserID    string `db:"user_id" json:"-"`
	Widget    string `db:"widget" json:"id"`
	SortOrder int    `db:"sort_order" json:"-"`
	Visible   bool   `db:"visible" json:"visible"`
}

func DefaultLayout(userID string) []*WidgetSlot {
	layout := make([]*WidgetSlot, len(Widgets))
	for i, w := range Widgets {
		layout[i] = &WidgetSlot{UserID: userID, Widget: w, SortOrder: i, Visible: true}
	}
	return layout
}

// ValidateLayout requires a permutation of the known widgets.
func ValidateLayout(layout []*WidgetSlot) error {
	known := make(map[string]bool, len(Widgets))
	for _, w := range Widgets {
		known[w] = true
	}

	seen := make(map[string]bool, len(layout))
	for _, slot := range layout {
		if slot == nil {
			return fmt.Errorf("%w: empty slot", ErrUnknownWidget)
		}
		if !known[slot.Widget] {
			return fmt.Errorf("%w: %q", ErrUnknownWidget, slot.Widget)
		}
		if seen[slot.Widget] {
			return fmt.Errorf("%w: %q", ErrDuplicateWidget, slot.Widget)
		}
		seen[slot.Widget] = true
	}

	if len(seen) != len(Widgets) {
		return ErrIncompleteLayout
	}
	return nil
}

// MoveWidget removes the slot at from and inserts it at to, renumbering
// SortOrder. The order of the input slice is left as is.
func MoveWidget(layout []*WidgetSlot, from, to int) ([]*WidgetSlot, error) {
	if from < 0 || from >= len(layout) || to < 0 || to >= len(layout) {
		return nil, ErrWidgetIndex
	}

	out := make([]*WidgetSlot, 0, len(layout))
	out = append(out, layout[:from]...)
	out = append(out, layout[from+1:]...)

	moved := layout[from]
	out = append(out[:to], append([]*WidgetSlot{moved}, out[to:]...)...)

	Renumber(out)
	return out, nil
}

// Renumber sets SortOrder to the slice position.
func Renumber(layout []*WidgetSlot) {
	for i, slot := range layout {
		slot.SortOrder = i
	}
}
