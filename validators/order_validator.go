// Package validators holds the flat input validation passes applied to
// customer-submitted payloads before any persistence work.
package validators

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxItemQuantity     = 50
	maxNotesLength      = 500
	maxInstructionsLen  = 200
	totalMatchTolerance = 0.01
)

var tableNumberPattern = regexp.MustCompile(`(?i)^T\d{2}$`)

// NormalizeTableNumber uppercases a table number and reports whether it
// is a valid T01-T99 reference.
func NormalizeTableNumber(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !tableNumberPattern.MatchString(raw) {
		return "", false
	}
	n, err := strconv.Atoi(raw[1:])
	if err != nil || n < 1 || n > 99 {
		return "", false
	}
	return strings.ToUpper(raw), true
}

// ValidateOrder checks a raw order payload and returns a field-keyed
// error map; an empty map means the payload is valid.
func ValidateOrder(data map[string]interface{}) map[string]string {
	errors := make(map[string]string)

	tableNumber, _ := data["tableNumber"].(string)
	if tableNumber == "" {
		errors["tableNumber"] = "Table number is required"
	} else if _, ok := NormalizeTableNumber(tableNumber); !ok {
		errors["tableNumber"] = "Invalid table number format"
	}

	items, ok := data["items"].([]interface{})
	switch {
	case !ok:
		errors["items"] = "Order items are required"
	case len(items) == 0:
		errors["items"] = "At least one item is required"
	default:
		for i, raw := range items {
			item, ok := raw.(map[string]interface{})
			if !ok {
				errors[fmt.Sprintf("items[%d]", i)] = "Item must be an object"
				continue
			}
			validateItem(item, i, errors)
		}
	}

	subtotal, subtotalOK := numericField(data, "subtotal", errors, "Subtotal")
	tax, taxOK := numericField(data, "tax", errors, "Tax")
	total, totalOK := numericField(data, "total", errors, "Total")

	if subtotalOK && taxOK && totalOK {
		if diff := subtotal + tax - total; diff > totalMatchTolerance || diff < -totalMatchTolerance {
			errors["total"] = "Total does not match subtotal + tax"
		}
	}

	if notes, ok := data["notes"].(string); ok && len(notes) > maxNotesLength {
		errors["notes"] = fmt.Sprintf("Notes cannot exceed %d characters", maxNotesLength)
	}

	return errors
}

func validateItem(item map[string]interface{}, index int, errors map[string]string) {
	prefix := fmt.Sprintf("items[%d]", index)

	if id, _ := item["menuItemId"].(string); id == "" {
		errors[prefix+".menuItemId"] = "Menu item ID is required"
	}

	if name, _ := item["name"].(string); name == "" {
		errors[prefix+".name"] = "Item name is required"
	}

	price, ok := toFloat(item["price"])
	if !ok {
		errors[prefix+".price"] = "Item price is required"
	} else if price < 0 {
		errors[prefix+".price"] = "Item price cannot be negative"
	}

	quantity, ok := toFloat(item["quantity"])
	switch {
	case !ok || quantity != float64(int(quantity)):
		errors[prefix+".quantity"] = "Item quantity is required"
	case quantity < 1:
		errors[prefix+".quantity"] = "Item quantity must be at least 1"
	case quantity > maxItemQuantity:
		errors[prefix+".quantity"] = fmt.Sprintf("Item quantity cannot exceed %d", maxItemQuantity)
	}

	if instructions, ok := item["specialInstructions"].(string); ok && len(instructions) > maxInstructionsLen {
		errors[prefix+".specialInstructions"] = fmt.Sprintf("Special instructions cannot exceed %d characters", maxInstructionsLen)
	}
}

func numericField(data map[string]interface{}, field string, errors map[string]string, label string) (float64, bool) {
	value, ok := toFloat(data[field])
	if !ok {
		errors[field] = label + " is required and must be numeric"
		return 0, false
	}
	if value < 0 {
		errors[field] = label + " cannot be negative"
		return 0, false
	}
	return value, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
