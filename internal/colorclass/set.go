package colorclass

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by ByID for an unknown class id.
	ErrNotFound = errors.New("color class not found")
	// ErrDuplicateID is returned by NewSet when two classes share an id.
	ErrDuplicateID = errors.New("duplicate color class id")
	// ErrInvalidClass is returned by NewSet for an empty id or a malformed signature.
	ErrInvalidClass = errors.New("invalid color class")
)

// Set is the immutable, ordered registry of classes with an id index.
type Set struct {
	classes []Class
	index   map[string]int
}

// NewSet validates the table and builds a registry. Order is preserved and
// defines tie-break priority during classification.
func NewSet(classes []Class) (*Set, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: empty class table", ErrInvalidClass)
	}

	s := &Set{
		classes: make([]Class, len(classes)),
		index:   make(map[string]int, len(classes)),
	}
	copy(s.classes, classes)

	for i, c := range s.classes {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: class at position %d has no id", ErrInvalidClass, i)
		}
		if !c.Signature.Valid() {
			return nil, fmt.Errorf("%w: class %s has signature %+v", ErrInvalidClass, c.ID, c.Signature)
		}
		if prev, ok := s.index[c.ID]; ok {
			return nil, fmt.Errorf("%w: %s at positions %d and %d", ErrDuplicateID, c.ID, prev, i)
		}
		s.index[c.ID] = i
	}

	return s, nil
}

// MustNewSet is NewSet for tables known at compile time.
func MustNewSet(classes []Class) *Set {
	s, err := NewSet(classes)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns the classes in registry order. The slice is a copy.
func (s *Set) All() []Class {
	out := make([]Class, len(s.classes))
	copy(out, s.classes)
	return out
}

// ByID returns the class with the given id.
func (s *Set) ByID(id string) (Class, error) {
	i, ok := s.index[id]
	if !ok {
		return Class{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.classes[i], nil
}

// Len returns the number of classes.
func (s *Set) Len() int {
	return len(s.classes)
}
