package validation

import (
	"github.com/samber/lo"
)

// Element a node of the form tree: a `*Field` or a `*Group`.
// Every element owns its conditions and knows its parent, which is
// the only container that added it.
type Element interface {
	Name() string
	Parent() *Group

	// Conditions returns the conditions declared on this element only.
	Conditions() []*Condition

	// Condition returns the condition for the given property, searching
	// this element first, then its ancestors from the closest to the root.
	Condition(property Property) *Condition

	// MetCondition same as `Condition` but only returns the condition
	// if it is met at the given dynamic position.
	MetCondition(property Property, position int) *Condition

	// AddCondition declares a condition on this element. If the element already
	// has a condition for this property, the comparisons are appended to it and
	// the given value and match mode are ignored.
	AddCondition(property Property, value bool, mode MatchMode, comparisons ...any) (*Condition, error)

	attach(parent *Group)
}

type element struct {
	self       Element
	parent     *Group
	name       string
	conditions []*Condition
}

// Name returns the internal name of the element.
func (e *element) Name() string {
	return e.name
}

// Parent returns the container owning this element, or nil for the root.
func (e *element) Parent() *Group {
	return e.parent
}

func (e *element) attach(parent *Group) {
	e.parent = parent
}

func (e *element) Conditions() []*Condition {
	return e.conditions
}

func (e *element) ownCondition(property Property) *Condition {
	c, _ := lo.Find(e.conditions, func(c *Condition) bool {
		return c.property == property
	})
	return c
}

func (e *element) Condition(property Property) *Condition {
	if c := e.ownCondition(property); c != nil {
		return c
	}
	if e.parent == nil {
		return nil
	}
	return e.parent.Condition(property)
}

func (e *element) MetCondition(property Property, position int) *Condition {
	c := e.Condition(property)
	if c == nil || !c.IsMet(position) {
		return nil
	}
	return c
}

func (e *element) AddCondition(property Property, value bool, mode MatchMode, comparisons ...any) (*Condition, error) {
	condition, err := NewCondition(e.self, property, value, mode)
	if err != nil {
		return nil, err
	}
	for _, c := range comparisons {
		if err := condition.AddComparison(c); err != nil {
			return nil, err
		}
	}

	if existing := e.ownCondition(property); existing != nil {
		existing.comparisons = append(existing.comparisons, condition.comparisons...)
		return existing, nil
	}
	e.conditions = append(e.conditions, condition)
	return condition, nil
}
