package validation

import (
	"github.com/samber/lo"
	"goyave.dev/formrules/util/errors"
)

// Group a container of fields and nested groups. A group can be dynamic:
// all the fields it contains are then repeated together. A group can also
// be an active area, toggled by a checkbox: when the checkbox is not checked,
// none of the fields inside the group are required.
type Group struct {
	element
	dynamic
	form     *Form
	toggle   *Field
	children []Element
}

// NewGroup create a new empty group.
func NewGroup(name string) *Group {
	g := &Group{
		element: element{name: name},
	}
	g.self = g
	return g
}

// Add appends children to the group. Panics if a child already belongs to a container.
func (g *Group) Add(children ...Element) *Group {
	for _, child := range children {
		if child.Parent() != nil {
			panic(errors.NewSkip(errors.Errorf("element %q already belongs to %q", child.Name(), child.Parent().Name()), 3))
		}
		if f, ok := child.(*Field); ok && g.Field(f.Name()) != nil {
			panic(errors.NewSkip(errors.Errorf("duplicate field %q in %q", f.Name(), g.Name()), 3))
		}
		child.attach(g)
		g.children = append(g.children, child)
	}
	return g
}

// Children returns the direct children of the group, in insertion order.
func (g *Group) Children() []Element {
	return g.children
}

// Fields returns all the fields of this group and its nested groups, depth-first.
func (g *Group) Fields() []*Field {
	fields := make([]*Field, 0, len(g.children))
	for _, child := range g.children {
		switch c := child.(type) {
		case *Field:
			fields = append(fields, c)
		case *Group:
			fields = append(fields, c.Fields()...)
		}
	}
	return fields
}

// Field returns the field with the given name, searching nested groups, or nil.
func (g *Group) Field(name string) *Field {
	f, _ := lo.Find(g.Fields(), func(f *Field) bool {
		return f.Name() == name
	})
	return f
}

// SetDynamic marks the group as dynamic. A counter named after the group
// is created if the group doesn't have one yet.
func (g *Group) SetDynamic(dynamic bool) *Group {
	g.flagged = dynamic
	if dynamic && len(g.counters) == 0 {
		g.counters = append(g.counters, &Counter{name: g.name})
	}
	return g
}

// AddCounter attaches an additional counter input with the given full name.
func (g *Group) AddCounter(name string) *Counter {
	c := &Counter{name: name, explicit: true}
	g.counters = append(g.counters, c)
	return c
}

// IsDynamic returns true if the group was flagged dynamic or has a counter attached.
func (g *Group) IsDynamic() bool {
	return g.flagged || len(g.counters) > 0
}

// DynamicCount gathers the counters of the group and of everything it contains,
// and equalizes them. Returns the highest submitted count.
func (g *Group) DynamicCount() int {
	return equalize(g.collectCounters(), g.source(), g.counterSuffix(), g.maxDynamicCount())
}

// DynamicState returns the current count and all the counter names of the group.
func (g *Group) DynamicState() DynamicState {
	counters := g.collectCounters()
	return DynamicState{
		Count:    equalize(counters, g.source(), g.counterSuffix(), g.maxDynamicCount()),
		Counters: counterNames(counters, g.counterSuffix()),
	}
}

func (g *Group) collectCounters() []*Counter {
	counters := append([]*Counter{}, g.counters...)
	for _, child := range g.children {
		switch c := child.(type) {
		case *Field:
			counters = append(counters, c.counters...)
		case *Group:
			counters = append(counters, c.collectCounters()...)
		}
	}
	return counters
}

// SetActiveArea turns the group into an area toggled by a checkbox with the given name.
// Returns the toggle field.
func (g *Group) SetActiveArea(toggleName string) *Field {
	toggle := NewField(toggleName, KindCheckbox, Rules{})
	toggle.attach(g)
	g.toggle = toggle
	return toggle
}

// Toggle returns the checkbox controlling the active area, or nil.
func (g *Group) Toggle() *Field {
	return g.toggle
}

// IsActive returns false if the group is an active area whose toggle is not checked
// at the given position, or if any ancestor group is inactive.
func (g *Group) IsActive(position int) bool {
	if g.toggle != nil && isBlank(toList(g.toggle.Value(position))) {
		return false
	}
	if g.parent == nil {
		return true
	}
	return g.parent.IsActive(position)
}

// Form returns the form at the root of the tree, or nil if the group is detached.
func (g *Group) Form() *Form {
	root := g
	for root.parent != nil {
		root = root.parent
	}
	return root.form
}

func (g *Group) source() ValueSource {
	if f := g.Form(); f != nil && f.source != nil {
		return f.source
	}
	return Values{}
}

func (g *Group) counterSuffix() string {
	if f := g.Form(); f != nil {
		return f.Config.GetString("validation.counterSuffix")
	}
	return defaultCounterSuffix
}

func (g *Group) maxDynamicCount() int {
	if f := g.Form(); f != nil {
		return f.Config.GetInt("validation.maxDynamicCount")
	}
	return defaultMaxDynamicCount
}
