package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID identifies a person or an item within a roster.
// Rosters saved by older clients used numeric millisecond timestamps, so an ID
// decodes from either a JSON string or a JSON number.
type ID string

// UnmarshalJSON accepts both `"abc"` and `1714000000000`.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Person is one diner in an itemized session.
type Person struct {
	// ID is unique within the roster and ordered by creation time.
	ID ID `json:"id"`

	// Name is free text and may be empty.
	Name string `json:"name"`

	// Items are the person's own line items, in entry order.
	Items []Item `json:"items"`
}

// Item is a single priced line item owned by one person.
type Item struct {
	ID          ID     `json:"id"`
	Description string `json:"description"`

	// Price is kept as the text the user typed. It is parsed leniently
	// whenever totals are computed; unparsable text counts as 0.
	Price string `json:"price"`
}

// ItemField names an editable field of an Item.
type ItemField string

const (
	ItemFieldDescription ItemField = "description"
	ItemFieldPrice       ItemField = "price"
)
