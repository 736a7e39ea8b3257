package model

import (
	"encoding/json"
	"fmt"
)

// Detail slot keys in their serialized order.
const (
	DetailBrand     = "BRAND"
	DetailSize      = "SIZE"
	DetailCondition = "CONDITION"
	DetailColor     = "COLOR"
	DetailCity      = "CITY"
)

// ProductDetails holds the five fixed product attributes. It serializes as an
// ordered array of single-key objects, an empty slot as {}.
type ProductDetails struct {
	Brand     string
	Size      string
	Condition string
	Color     string
	City      string
}

func (d ProductDetails) slots() [5]struct{ key, value string } {
	return [5]struct{ key, value string }{
		{DetailBrand, d.Brand},
		{DetailSize, d.Size},
		{DetailCondition, d.Condition},
		{DetailColor, d.Color},
		{DetailCity, d.City},
	}
}

func (d ProductDetails) MarshalJSON() ([]byte, error) {
	out := make([]map[string]string, 0, 5)
	for _, s := range d.slots() {
		entry := map[string]string{}
		if s.value != "" {
			entry[s.key] = s.value
		}
		out = append(out, entry)
	}
	return json.Marshal(out)
}

func (d *ProductDetails) UnmarshalJSON(data []byte) error {
	var entries []map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("product details: %w", err)
	}

	var parsed ProductDetails
	for _, entry := range entries {
		for key, value := range entry {
			switch key {
			case DetailBrand:
				parsed.Brand = value
			case DetailSize:
				parsed.Size = value
			case DetailCondition:
				parsed.Condition = value
			case DetailColor:
				parsed.Color = value
			case DetailCity:
				parsed.City = value
			default:
				return fmt.Errorf("product details: unknown key %q", key)
			}
		}
	}
	*d = parsed
	return nil
}
