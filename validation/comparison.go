package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

// Operator the comparison operator of a `Comparison`.
type Operator string

// Comparison operators
const (
	Equal          Operator = "equal"
	NotEqual       Operator = "not-equal"
	LessThan       Operator = "less-than"
	GreaterThan    Operator = "greater-than"
	LessOrEqual    Operator = "less-or-equal"
	GreaterOrEqual Operator = "greater-or-equal"
	Empty          Operator = "empty"
	NotEmpty       Operator = "not-empty"
	StartsWith     Operator = "starts-with"
	EndsWith       Operator = "ends-with"
	Contains       Operator = "contains"
	Regex          Operator = "regex"
)

var operatorAliases = map[string]Operator{
	"==": Equal,
	"!=": NotEqual,
	"<":  LessThan,
	">":  GreaterThan,
	"<=": LessOrEqual,
	">=": GreaterOrEqual,
}

var operators = []Operator{
	Equal, NotEqual, LessThan, GreaterThan, LessOrEqual, GreaterOrEqual,
	Empty, NotEmpty, StartsWith, EndsWith, Contains, Regex,
}

// ParseOperator returns the operator matching the given name or symbol ("==", "<=", ...).
func ParseOperator(s string) (Operator, error) {
	if op, ok := operatorAliases[s]; ok {
		return op, nil
	}
	op := Operator(strings.ToLower(s))
	if !lo.Contains(operators, op) {
		return "", errors.Errorf("unknown comparison operator %q", s)
	}
	return op, nil
}

// NeedsValue returns true if the operator compares against a literal.
func (o Operator) NeedsValue() bool {
	return o != Empty && o != NotEmpty
}

// ComparisonDescriptor the declarative form of a `Comparison`. It can be
// passed to `Condition.AddComparison` instead of a constructed comparison.
type ComparisonDescriptor struct {
	Subject  Element
	Operator Operator
	Value    string
}

// Comparison a single predicate on the current value of a subject field.
//
// String comparisons are case-insensitive. Ordering operators compare numerically
// when both sides are numbers. When the subject holds a list, the comparison
// succeeds if any item satisfies it, except for `Empty` (all items blank)
// and `NotEmpty` (at least one item not blank).
type Comparison struct {
	subject  *Field
	regexp   *regexp.Regexp
	operator Operator
	value    string
}

// NewComparison create a new comparison. Returns an error if the subject is not
// a field, if the operator requires a literal and none is given, if the `Empty` operator
// is used on a required field, or if the regex doesn't compile.
func NewComparison(subject Element, operator Operator, value ...string) (*Comparison, error) {
	field, ok := subject.(*Field)
	if !ok || field == nil {
		return nil, errors.Errorf("comparison subject must be a field, %T given", subject)
	}
	if !lo.Contains(operators, operator) {
		return nil, errors.Errorf("unknown comparison operator %q", operator)
	}

	c := &Comparison{
		subject:  field,
		operator: operator,
	}
	if operator.NeedsValue() {
		if len(value) == 0 {
			return nil, errors.Errorf("comparison operator %q on %q requires a value", operator, field.Name())
		}
		c.value = value[0]
	}

	switch operator {
	case Empty:
		if field.Validator().DefaultRequired() {
			return nil, errors.Errorf("cannot use operator %q on required field %q", operator, field.Name())
		}
	case Regex:
		re, err := regexp.Compile(c.value)
		if err != nil {
			return nil, errors.New(err)
		}
		c.regexp = re
	}
	return c, nil
}

// MustComparison same as `NewComparison()` but panics if the comparison is invalid.
func MustComparison(subject Element, operator Operator, value ...string) *Comparison {
	c, err := NewComparison(subject, operator, value...)
	if err != nil {
		panic(errors.NewSkip(err, 3))
	}
	return c
}

// Subject returns the field whose value is compared.
func (c *Comparison) Subject() *Field {
	return c.subject
}

// Operator returns the comparison operator.
func (c *Comparison) Operator() Operator {
	return c.operator
}

// Value returns the literal the subject is compared to.
func (c *Comparison) Value() string {
	return c.value
}

// Check evaluates the comparison against the current value of the subject
// at the given dynamic position.
func (c *Comparison) Check(position int) bool {
	items := toList(c.subject.Value(position))
	switch c.operator {
	case Empty:
		return isBlank(items)
	case NotEmpty:
		return !isBlank(items)
	}
	if len(items) == 0 {
		items = []string{""}
	}
	return lo.SomeBy(items, c.compare)
}

func (c *Comparison) compare(item string) bool {
	a := strings.ToLower(item)
	b := strings.ToLower(c.value)
	switch c.operator {
	case Equal:
		return a == b
	case NotEqual:
		return a != b
	case LessThan:
		return compareOrdered(a, b) < 0
	case GreaterThan:
		return compareOrdered(a, b) > 0
	case LessOrEqual:
		return compareOrdered(a, b) <= 0
	case GreaterOrEqual:
		return compareOrdered(a, b) >= 0
	case StartsWith:
		return strings.HasPrefix(a, b)
	case EndsWith:
		return strings.HasSuffix(a, b)
	case Contains:
		return strings.Contains(a, b)
	case Regex:
		return c.regexp.MatchString(item)
	}
	return false
}

func compareOrdered(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

func toList(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	}
	return nil
}

func isBlank(items []string) bool {
	return lo.EveryBy(items, func(item string) bool {
		return strings.TrimSpace(item) == ""
	})
}
