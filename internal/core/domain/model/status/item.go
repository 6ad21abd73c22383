package status

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Item is the cancellation and return state of a single order line.
type Item int

const (
	ItemUnknown Item = iota
	ItemActive
	ItemCancelled
	ItemReturned
	ItemPartiallyCancelled
	ItemPartiallyReturned
)

var itemStrings = map[Item]string{
	ItemActive:             "Active",
	ItemCancelled:          "Cancelled",
	ItemReturned:           "Returned",
	ItemPartiallyCancelled: "Partially Cancelled",
	ItemPartiallyReturned:  "Partially Returned",
}

func ParseItem(s string) (Item, error) {
	for i, str := range itemStrings {
		if str == s {
			return i, nil
		}
	}
	return ItemUnknown, errs.NewValueIsInvalidErrorWithCause(
		"item status",
		fmt.Errorf("%q is not a valid item status", s),
	)
}

func (i Item) Validate() error {
	if _, ok := itemStrings[i]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"item status",
			fmt.Errorf("%d is not a valid item status", i),
		)
	}
	return nil
}

func (i Item) String() string {
	if str, ok := itemStrings[i]; ok {
		return str
	}
	return "Unknown"
}

// ForCancelledQuantity returns the item status implied by how many of
// quantity units have been cancelled.
func ForCancelledQuantity(cancelled, quantity int) Item {
	switch {
	case cancelled <= 0:
		return ItemActive
	case cancelled >= quantity:
		return ItemCancelled
	default:
		return ItemPartiallyCancelled
	}
}

// MirrorItems derives a sub-order's status from the statuses of its items
// after a cancellation. current is returned when no item was touched.
func MirrorItems(current Fulfillment, items []Item) Fulfillment {
	if len(items) == 0 {
		return current
	}
	cancelled, touched := 0, false
	for _, i := range items {
		switch i {
		case ItemCancelled:
			cancelled++
			touched = true
		case ItemPartiallyCancelled:
			touched = true
		}
	}
	switch {
	case cancelled == len(items):
		return Cancelled
	case touched:
		return PartiallyCancelled
	default:
		return current
	}
}

func (i Item) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Item) UnmarshalText(text []byte) error {
	parsed, err := ParseItem(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
