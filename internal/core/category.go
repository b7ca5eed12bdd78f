package core

import (
	"errors"
	"fmt"
	"strings"
)

// AllCategories is the filter value that matches every category.
const AllCategories = "All"

// FallbackCategory is always present in a Registry.
const FallbackCategory = "Other"

// Category is a named bucket expenses can be tagged with. Icon and Color are
// display tokens and are not interpreted here.
type Category struct {
	Name  string
	Icon  string
	Color string
}

// Registry is a fixed, ordered catalog of categories. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	categories []Category
	index      map[string]int
}

var (
	ErrInvalidCategory   = errors.New("invalid category")
	ErrDuplicateCategory = errors.New("duplicate category")
)

var defaultCategories = []Category{
	{Name: "Food & Dining", Icon: "fork.knife", Color: "orange"},
	{Name: "Transportation", Icon: "car.fill", Color: "blue"},
	{Name: "Shopping", Icon: "bag.fill", Color: "purple"},
	{Name: "Entertainment", Icon: "gamecontroller.fill", Color: "green"},
	{Name: "Healthcare", Icon: "cross.fill", Color: "red"},
	{Name: "Utilities", Icon: "bolt.fill", Color: "yellow"},
	{Name: "Education", Icon: "book.fill", Color: "indigo"},
	{Name: FallbackCategory, Icon: "ellipsis.circle.fill", Color: "gray"},
}

// DefaultRegistry returns the built-in category catalog.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultCategories...)
	if err != nil {
		panic(err) // built-in list is static
	}
	return r
}

// NewRegistry builds a registry from cats, preserving order. Names are
// trimmed and must be unique and non-empty. With no input the registry holds
// only the fallback category.
func NewRegistry(cats ...Category) (*Registry, error) {
	if len(cats) == 0 {
		cats = []Category{defaultCategories[len(defaultCategories)-1]}
	}
	r := &Registry{
		categories: make([]Category, 0, len(cats)),
		index:      make(map[string]int, len(cats)),
	}
	for _, c := range cats {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" || c.Name == AllCategories {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c.Name)
		}
		if _, ok := r.index[c.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, c.Name)
		}
		r.index[c.Name] = len(r.categories)
		r.categories = append(r.categories, c)
	}
	return r, nil
}

// All returns a copy of the categories in registry order.
func (r *Registry) All() []Category {
	return append([]Category(nil), r.categories...)
}

// Names returns the category names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.categories))
	for i, c := range r.categories {
		names[i] = c.Name
	}
	return names
}

// FilterNames returns the names prefixed with AllCategories, the list a
// category filter is populated from.
func (r *Registry) FilterNames() []string {
	return append([]string{AllCategories}, r.Names()...)
}

// Lookup returns the category with the given name.
func (r *Registry) Lookup(name string) (Category, bool) {
	i, ok := r.index[name]
	if !ok {
		return Category{}, false
	}
	return r.categories[i], true
}

func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Fallback returns the "Other" category if registered, else the last one.
func (r *Registry) Fallback() Category {
	if c, ok := r.Lookup(FallbackCategory); ok {
		return c
	}
	return r.categories[len(r.categories)-1]
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.categories)
}

// position returns the registry index of name, or -1.
func (r *Registry) position(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}
