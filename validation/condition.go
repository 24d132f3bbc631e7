package validation

import (
	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

// Property the state of an element a `Condition` drives.
type Property string

// Condition properties
const (
	PropertyRequired Property = "required"
	PropertyEnabled  Property = "enabled"
	PropertyVisible  Property = "visible"
)

// ParseProperty returns the property matching the given name.
func ParseProperty(s string) (Property, error) {
	p := Property(s)
	switch p {
	case PropertyRequired, PropertyEnabled, PropertyVisible:
		return p, nil
	}
	return "", errors.Errorf("unknown condition property %q", s)
}

// MatchMode defines how the comparisons of a condition combine.
type MatchMode int

// Match modes
const (
	MatchAll MatchMode = iota
	MatchAny
)

func (m MatchMode) String() string {
	return lo.Ternary(m == MatchAny, "any", "all")
}

// ParseMatchMode returns the match mode matching the given name ("all" or "any").
// An empty string defaults to `MatchAll`.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "all":
		return MatchAll, nil
	case "any":
		return MatchAny, nil
	}
	return MatchAll, errors.Errorf("unknown match mode %q", s)
}

// Condition a rule stating that a property of its subject takes the given value
// when its comparisons are satisfied, and the opposite value otherwise.
//
// A condition without comparisons is met in `MatchAll` mode and not met in `MatchAny` mode.
type Condition struct {
	subject     Element
	property    Property
	comparisons []*Comparison
	mode        MatchMode
	value       bool
}

// NewCondition create a new condition on the given subject.
func NewCondition(subject Element, property Property, value bool, mode MatchMode) (*Condition, error) {
	if subject == nil {
		return nil, errors.New("condition subject cannot be nil")
	}
	if _, err := ParseProperty(string(property)); err != nil {
		return nil, err
	}
	return &Condition{
		subject:  subject,
		property: property,
		value:    value,
		mode:     mode,
	}, nil
}

// AddComparison adds a comparison to this condition. Accepts a `*Comparison`,
// a `ComparisonDescriptor` or a `*ComparisonDescriptor`. Any other value is rejected.
func (c *Condition) AddComparison(comparison any) error {
	switch cmp := comparison.(type) {
	case *Comparison:
		if cmp == nil {
			return errors.New("cannot add a nil comparison")
		}
		c.comparisons = append(c.comparisons, cmp)
	case ComparisonDescriptor:
		built, err := NewComparison(cmp.Subject, cmp.Operator, lo.Ternary(cmp.Operator.NeedsValue(), []string{cmp.Value}, nil)...)
		if err != nil {
			return err
		}
		c.comparisons = append(c.comparisons, built)
	case *ComparisonDescriptor:
		if cmp == nil {
			return errors.New("cannot add a nil comparison")
		}
		return c.AddComparison(*cmp)
	default:
		return errors.Errorf("invalid comparison type %T", comparison)
	}
	return nil
}

// IsMet evaluates the comparisons at the given dynamic position.
func (c *Condition) IsMet(position int) bool {
	check := func(cmp *Comparison) bool { return cmp.Check(position) }
	if c.mode == MatchAny {
		return lo.SomeBy(c.comparisons, check)
	}
	return lo.EveryBy(c.comparisons, check)
}

// Effective returns the value the property takes at the given position:
// the condition's value if it is met, its negation otherwise.
func (c *Condition) Effective(position int) bool {
	if c.IsMet(position) {
		return c.value
	}
	return !c.value
}

// Subject returns the element the condition applies to.
func (c *Condition) Subject() Element {
	return c.subject
}

// Property returns the property driven by the condition.
func (c *Condition) Property() Property {
	return c.property
}

// Value returns the value the property takes when the condition is met.
func (c *Condition) Value() bool {
	return c.value
}

// MatchMode returns how the comparisons combine.
func (c *Condition) MatchMode() MatchMode {
	return c.mode
}

// SetMatchMode changes how the comparisons combine.
func (c *Condition) SetMatchMode(mode MatchMode) {
	c.mode = mode
}

// Comparisons returns the comparisons of this condition.
func (c *Condition) Comparisons() []*Comparison {
	return c.comparisons
}
