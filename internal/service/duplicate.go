package service

import (
	"fmt"

	"github.com/chopie/restaurant/internal/models"
)

// itemKey collapses a line item to its identity for duplicate comparison.
// Price is deliberately excluded: the totals already matched to get here.
func itemKey(item models.OrderItem) string {
	return fmt.Sprintf("%s-%d-%s", item.Name, item.Quantity, item.SpecialInstructions)
}

// sameItems compares two item lists as multisets, ignoring order. Two carts
// with the same dishes, quantities and instructions are considered identical
// even if the customer reordered them.
func sameItems(a, b []models.OrderItem) bool {
	if len(a) != len(b) {
		return false
	}

	counts := make(map[string]int, len(a))
	for _, item := range a {
		counts[itemKey(item)]++
	}

	for _, item := range b {
		key := itemKey(item)
		counts[key]--
		if counts[key] < 0 {
			return false
		}
	}

	return true
}
