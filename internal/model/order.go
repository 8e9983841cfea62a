package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// OrderField is the note attribute used as sort key.
type OrderField int

const (
	OrderByDate OrderField = iota
	OrderByTitle
	OrderByColor
)

// Direction is the sort direction.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// Order pairs a sort field with a direction. The zero value is the default
// order: newest notes first.
type Order struct {
	Field     OrderField
	Direction Direction
}

// DefaultOrder is the order a notes list starts with.
var DefaultOrder = Order{Field: OrderByDate, Direction: Descending}

// WithDirection returns a copy of o with the direction replaced.
func (o Order) WithDirection(d Direction) Order {
	o.Direction = d
	return o
}

// WithField returns a copy of o with the field replaced.
func (o Order) WithField(f OrderField) Order {
	o.Field = f
	return o
}

func (o Order) String() string {
	return o.Field.String() + ":" + o.Direction.String()
}

func (f OrderField) String() string {
	switch f {
	case OrderByTitle:
		return "title"
	case OrderByDate:
		return "date"
	case OrderByColor:
		return "color"
	default:
		return fmt.Sprintf("OrderField(%d)", int(f))
	}
}

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseOrderField parses "title", "date" or "color".
func ParseOrderField(s string) (OrderField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return OrderByTitle, nil
	case "date":
		return OrderByDate, nil
	case "color":
		return OrderByColor, nil
	}
	return 0, fmt.Errorf("unknown order field %q", s)
}

// ParseDirection parses "asc"/"ascending" or "desc"/"descending".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// ParseOrder parses the "field:direction" form produced by Order.String.
// A bare field defaults to descending.
func ParseOrder(s string) (Order, error) {
	fieldPart, dirPart, hasDir := strings.Cut(s, ":")
	field, err := ParseOrderField(fieldPart)
	if err != nil {
		return Order{}, err
	}
	order := Order{Field: field, Direction: Descending}
	if hasDir {
		dir, err := ParseDirection(dirPart)
		if err != nil {
			return Order{}, err
		}
		order.Direction = dir
	}
	return order, nil
}

// Sort returns the notes ordered by o. The input slice is left untouched and
// notes with equal keys keep their relative input order in both directions.
func Sort(notes []Note, o Order) []Note {
	sorted := slices.Clone(notes)
	if sorted == nil {
		sorted = []Note{}
	}

	compare := compareBy(o.Field)
	if o.Direction == Descending {
		asc := compare
		compare = func(a, b Note) int { return asc(b, a) }
	}

	slices.SortStableFunc(sorted, compare)
	return sorted
}

func compareBy(f OrderField) func(a, b Note) int {
	switch f {
	case OrderByTitle:
		return func(a, b Note) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case OrderByColor:
		return func(a, b Note) int { return cmp.Compare(a.Color, b.Color) }
	default:
		return func(a, b Note) int { return cmp.Compare(a.Timestamp, b.Timestamp) }
	}
}
