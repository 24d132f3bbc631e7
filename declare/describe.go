package declare

import (
	"github.com/samber/lo"
	"goyave.dev/formrules/validation"
)

// Describe returns the declaration of the given form. Building the returned
// document gives an equivalent form, except for external hooks which must
// be registered again under the same names.
func Describe(form *validation.Form) *Document {
	return &Document{
		Name:     form.Name(),
		Elements: describeElements(form.Children()),
	}
}

func describeElements(elements []validation.Element) []Element {
	return lo.FilterMap(elements, func(e validation.Element, _ int) (Element, bool) {
		switch el := e.(type) {
		case *validation.Field:
			return describeField(el), true
		case *validation.Group:
			return describeGroup(el), true
		}
		return Element{}, false
	})
}

func describeGroup(g *validation.Group) Element {
	doc := Element{
		Name:       g.Name(),
		Type:       TypeGroup,
		Dynamic:    hasOwnCounter(g.Counters()),
		Counters:   explicitCounters(g.Counters()),
		Conditions: describeConditions(g.Conditions()),
		Children:   describeElements(g.Children()),
	}
	if toggle := g.Toggle(); toggle != nil {
		doc.ActiveArea = toggle.Name()
	}
	return doc
}

func describeField(f *validation.Field) Element {
	rules := f.Validator().Rules()
	doc := Element{
		Name:          f.Name(),
		Type:          string(f.Kind()),
		Label:         f.Label(),
		Hint:          f.Hint(),
		Default:       f.Default(),
		Options:       f.Options(),
		Required:      rules.Required,
		MinLength:     rules.MinLength,
		MaxLength:     rules.MaxLength,
		MinValue:      rules.MinValue,
		MaxValue:      rules.MaxValue,
		AllowUnlisted: rules.AllowUnlistedItems,
		Multiple:      f.IsMultiple() && f.Kind() != validation.KindCheckboxes,
		Removable:     f.IsRemovable(),
		Dynamic:       hasOwnCounter(f.Counters()),
		Counters:      explicitCounters(f.Counters()),
		Conditions:    describeConditions(f.Conditions()),
	}
	if rules.MatchWith != nil {
		doc.MatchWith = rules.MatchWith.Name()
	}
	if rules.Pattern != nil {
		doc.Pattern = rules.Pattern.String()
	}
	if len(rules.Sanitizers) > 0 {
		doc.Sanitizers = lo.Map(rules.Sanitizers, func(s validation.Sanitizer, _ int) string {
			return s.Name
		})
	}
	if len(rules.Hooks) > 0 {
		doc.Hooks = lo.Map(rules.Hooks, func(h validation.Hook, _ int) Hook {
			return Hook{Name: h.Name, Args: h.Args, Message: h.Message}
		})
	}
	if len(rules.Messages) > 0 {
		doc.Messages = lo.MapKeys(rules.Messages, func(_ string, kind validation.ErrorKind) string {
			return string(kind)
		})
	}
	return doc
}

func describeConditions(conditions []*validation.Condition) []Condition {
	if len(conditions) == 0 {
		return nil
	}
	return lo.Map(conditions, func(c *validation.Condition, _ int) Condition {
		return Condition{
			Property: string(c.Property()),
			Value:    lo.ToPtr(c.Value()),
			Match:    c.MatchMode().String(),
			Comparisons: lo.Map(c.Comparisons(), func(cmp *validation.Comparison, _ int) Comparison {
				return Comparison{
					Field:    cmp.Subject().Name(),
					Operator: string(cmp.Operator()),
					Value:    cmp.Value(),
				}
			}),
		}
	})
}

func hasOwnCounter(counters []*validation.Counter) bool {
	return lo.SomeBy(counters, func(c *validation.Counter) bool {
		return !c.Explicit()
	})
}

func explicitCounters(counters []*validation.Counter) []string {
	explicit := lo.FilterMap(counters, func(c *validation.Counter, _ int) (string, bool) {
		return c.Name(""), c.Explicit()
	})
	if len(explicit) == 0 {
		return nil
	}
	return explicit
}
