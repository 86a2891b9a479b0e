package session

import (
	"github.com/google/uuid"

	"github.com/mmynk/tipsplitter/internal/models"
)

// Roster operations never modify their input. Each returns a new slice in
// which only the targeted person (and, for item edits, only the targeted
// item) is replaced by an updated copy; every other element keeps its
// position and ID.

// newID returns a time-ordered ID, so IDs sort in creation order.
func newID() models.ID {
	id, err := uuid.NewV7()
	if err != nil {
		return models.ID(uuid.NewString())
	}
	return models.ID(id.String())
}

// NewPerson creates a person with no items.
func NewPerson(name string) models.Person {
	return models.Person{ID: newID(), Name: name, Items: []models.Item{}}
}

// NewItem creates an item. price is stored as typed.
func NewItem(description, price string) models.Item {
	return models.Item{ID: newID(), Description: description, Price: price}
}

// EnsureRoster returns people unchanged unless it is empty, in which case it
// returns a roster with one unnamed person.
func EnsureRoster(people []models.Person) []models.Person {
	if len(people) > 0 {
		return people
	}
	return []models.Person{NewPerson("")}
}

// AddPerson appends p.
func AddPerson(people []models.Person, p models.Person) []models.Person {
	out := make([]models.Person, 0, len(people)+1)
	out = append(out, people...)
	return append(out, p)
}

// RemovePerson drops the person with the given ID. The last remaining person
// cannot be removed; with fewer than two people the roster is returned as is.
func RemovePerson(people []models.Person, id models.ID) []models.Person {
	if len(people) < 2 {
		return people
	}
	out := make([]models.Person, 0, len(people))
	for _, p := range people {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// RenamePerson sets the name of the person with the given ID.
func RenamePerson(people []models.Person, id models.ID, name string) []models.Person {
	return updatePerson(people, id, func(p models.Person) models.Person {
		p.Name = name
		return p
	})
}

// AddItem appends item to the person's items.
func AddItem(people []models.Person, personID models.ID, item models.Item) []models.Person {
	return updatePerson(people, personID, func(p models.Person) models.Person {
		items := make([]models.Item, 0, len(p.Items)+1)
		items = append(items, p.Items...)
		p.Items = append(items, item)
		return p
	})
}

// RemoveItem drops one item from the person's items.
func RemoveItem(people []models.Person, personID, itemID models.ID) []models.Person {
	return updatePerson(people, personID, func(p models.Person) models.Person {
		items := make([]models.Item, 0, len(p.Items))
		for _, it := range p.Items {
			if it.ID != itemID {
				items = append(items, it)
			}
		}
		p.Items = items
		return p
	})
}

// UpdateItem sets one field of one item. Unknown fields leave the roster unchanged.
func UpdateItem(people []models.Person, personID, itemID models.ID, field models.ItemField, value string) []models.Person {
	if field != models.ItemFieldDescription && field != models.ItemFieldPrice {
		return people
	}
	return updatePerson(people, personID, func(p models.Person) models.Person {
		items := make([]models.Item, len(p.Items))
		for i, it := range p.Items {
			if it.ID == itemID {
				switch field {
				case models.ItemFieldDescription:
					it.Description = value
				case models.ItemFieldPrice:
					it.Price = value
				}
			}
			items[i] = it
		}
		p.Items = items
		return p
	})
}

// FindPerson returns the person with the given ID.
func FindPerson(people []models.Person, id models.ID) (models.Person, bool) {
	for _, p := range people {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}

// ClonePeople deep-copies a roster, so callers cannot reach shared item slices.
// Items is never nil in the copy; a stored roster needs "items":[] to be
// readable by the web app.
func ClonePeople(people []models.Person) []models.Person {
	out := make([]models.Person, len(people))
	for i, p := range people {
		p.Items = append(make([]models.Item, 0, len(p.Items)), p.Items...)
		out[i] = p
	}
	return out
}

func updatePerson(people []models.Person, id models.ID, fn func(models.Person) models.Person) []models.Person {
	out := make([]models.Person, len(people))
	for i, p := range people {
		if p.ID == id {
			p = fn(p)
		}
		out[i] = p
	}
	return out
}
