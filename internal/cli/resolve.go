package cli

import (
	"fmt"
	"strconv"

	"github.com/mmynk/tipsplitter/internal/middleware"
	"github.com/mmynk/tipsplitter/internal/models"
)

// resolvePerson accepts a 1-based position or a person ID.
func resolvePerson(people []models.Person, ref string) (models.Person, error) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(people) {
		return people[n-1], nil
	}
	for _, p := range people {
		if string(p.ID) == ref {
			return p, nil
		}
	}
	return models.Person{}, fmt.Errorf("%w: no person %q", middleware.ErrInvalidInput, ref)
}

// resolveItem accepts a 1-based position or an item ID within person.
func resolveItem(person models.Person, ref string) (models.Item, error) {
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(person.Items) {
		return person.Items[n-1], nil
	}
	for _, it := range person.Items {
		if string(it.ID) == ref {
			return it, nil
		}
	}
	return models.Item{}, fmt.Errorf("%w: no item %q", middleware.ErrInvalidInput, ref)
}

func parseInt(arg, name string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", middleware.ErrInvalidInput, name, arg)
	}
	return n, nil
}
