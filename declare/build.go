package declare

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
	"goyave.dev/formrules/validation"
)

type pendingConditions struct {
	element    validation.Element
	conditions []Condition
}

type builder struct {
	hooks      map[string]validation.ExternalFunc
	fields     map[string]*validation.Field
	matchWith  map[*validation.Field]string
	conditions []pendingConditions
}

// Build creates a form from the given document. External hooks are resolved by
// name in the given registry. Fields referenced by conditions and "matchWith"
// can be declared anywhere in the document.
func Build(doc *Document, hooks map[string]validation.ExternalFunc, opts *validation.Options) (*validation.Form, error) {
	if doc == nil {
		return nil, errors.New("cannot build a form from a nil document")
	}
	b := &builder{
		hooks:     hooks,
		fields:    map[string]*validation.Field{},
		matchWith: map[*validation.Field]string{},
	}

	children, err := b.elements(doc.Elements)
	if err != nil {
		return nil, err
	}
	form := validation.NewForm(doc.Name, opts)
	form.Add(children...)

	for field, name := range b.matchWith {
		other, ok := b.fields[name]
		if !ok {
			return nil, errors.Errorf("field %q must match unknown field %q", field.Name(), name)
		}
		field.Validator().SetMatchWith(other)
	}

	for _, pending := range b.conditions {
		for _, c := range pending.conditions {
			if err := b.condition(pending.element, c); err != nil {
				return nil, err
			}
		}
	}
	return form, nil
}

func (b *builder) elements(docs []Element) ([]validation.Element, error) {
	elements := make([]validation.Element, 0, len(docs))
	for _, doc := range docs {
		var element validation.Element
		var err error
		if doc.Type == TypeGroup {
			element, err = b.group(doc)
		} else {
			element, err = b.field(doc)
		}
		if err != nil {
			return nil, err
		}
		if len(doc.Conditions) > 0 {
			b.conditions = append(b.conditions, pendingConditions{element: element, conditions: doc.Conditions})
		}
		elements = append(elements, element)
	}
	return elements, nil
}

func (b *builder) group(doc Element) (*validation.Group, error) {
	if doc.Name == "" {
		return nil, errors.New("group name cannot be empty")
	}
	children, err := b.elements(doc.Children)
	if err != nil {
		return nil, err
	}
	g := validation.NewGroup(doc.Name).SetDynamic(doc.Dynamic).Add(children...)
	for _, name := range doc.Counters {
		g.AddCounter(name)
	}
	if doc.ActiveArea != "" {
		g.SetActiveArea(doc.ActiveArea)
	}
	return g, nil
}

func (b *builder) field(doc Element) (*validation.Field, error) {
	if doc.Name == "" {
		return nil, errors.New("field name cannot be empty")
	}
	if _, exists := b.fields[strings.TrimSuffix(doc.Name, "[]")]; exists {
		return nil, errors.Errorf("duplicate field %q", doc.Name)
	}
	if len(doc.Children) > 0 {
		return nil, errors.Errorf("field %q cannot have children", doc.Name)
	}

	rules, err := b.rules(doc)
	if err != nil {
		return nil, err
	}
	kind := validation.Kind(lo.Ternary(doc.Type == "", string(validation.KindString), doc.Type))
	f := validation.NewField(doc.Name, kind, rules).
		SetLabel(doc.Label).
		SetHint(doc.Hint).
		SetDefault(doc.Default).
		SetOptions(doc.Options...).
		SetRemovable(doc.Removable).
		SetDynamic(doc.Dynamic)
	if doc.Multiple {
		f.SetMultiple(true)
	}
	for _, name := range doc.Counters {
		f.AddCounter(name)
	}

	b.fields[f.Name()] = f
	if doc.MatchWith != "" {
		b.matchWith[f] = doc.MatchWith
	}
	return f, nil
}

func (b *builder) rules(doc Element) (validation.Rules, error) {
	rules := validation.Rules{
		Required:           doc.Required,
		MinLength:          doc.MinLength,
		MaxLength:          doc.MaxLength,
		MinValue:           doc.MinValue,
		MaxValue:           doc.MaxValue,
		AllowUnlistedItems: doc.AllowUnlisted,
	}

	if doc.Pattern != "" {
		re, err := regexp.Compile(doc.Pattern)
		if err != nil {
			return rules, errors.Errorf("invalid pattern for field %q: %w", doc.Name, err)
		}
		rules.Pattern = re
	}

	for _, name := range doc.Sanitizers {
		s, ok := validation.SanitizerByName(name)
		if !ok {
			return rules, errors.Errorf("unknown sanitizer %q for field %q", name, doc.Name)
		}
		rules.Sanitizers = append(rules.Sanitizers, s)
	}

	for _, h := range doc.Hooks {
		fn, ok := b.hooks[h.Name]
		if !ok {
			return rules, errors.Errorf("unknown hook %q for field %q", h.Name, doc.Name)
		}
		rules.Hooks = append(rules.Hooks, validation.Hook{Name: h.Name, Func: fn, Args: h.Args, Message: h.Message})
	}

	if len(doc.Messages) > 0 {
		rules.Messages = make(map[validation.ErrorKind]string, len(doc.Messages))
		for name, message := range doc.Messages {
			kind, err := validation.ParseErrorKind(name)
			if err != nil {
				return rules, errors.Errorf("invalid message for field %q: %w", doc.Name, err)
			}
			rules.Messages[kind] = message
		}
	}
	return rules, nil
}

func (b *builder) condition(element validation.Element, doc Condition) error {
	property, err := validation.ParseProperty(doc.Property)
	if err != nil {
		return err
	}
	mode, err := validation.ParseMatchMode(doc.Match)
	if err != nil {
		return err
	}

	comparisons := make([]any, 0, len(doc.Comparisons))
	for _, c := range doc.Comparisons {
		subject, ok := b.fields[c.Field]
		if !ok {
			return errors.Errorf("condition on %q compares unknown field %q", element.Name(), c.Field)
		}
		operator, err := validation.ParseOperator(c.Operator)
		if err != nil {
			return err
		}
		comparisons = append(comparisons, validation.ComparisonDescriptor{
			Subject:  subject,
			Operator: operator,
			Value:    c.Value,
		})
	}

	value := doc.Value == nil || *doc.Value
	_, err = element.AddCondition(property, value, mode, comparisons...)
	return err
}
