package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForm(source Values, elements ...Element) *Form {
	form := NewForm("test", nil)
	form.Add(elements...)
	form.SetSource(source)
	return form
}

func TestValidatorRules(t *testing.T) {
	cases := []struct {
		source    Values
		field     func() *Field
		desc      string
		wantKind  ErrorKind
		wantMsg   string
		wantValue any
		position  int
		want      bool
	}{
		{
			desc:     "required_missing",
			field:    func() *Field { return NewField("name", KindString, Rules{Required: true}) },
			source:   Values{"name": {"  "}},
			wantKind: RequiredError,
			wantMsg:  "The name is required.",
		},
		{
			desc:      "optional_empty",
			field:     func() *Field { return NewField("name", KindString, Rules{}) },
			source:    Values{},
			want:      true,
			wantValue: "",
		},
		{
			desc:      "optional_empty_list",
			field:     func() *Field { return NewField("tags", KindCheckboxes, Rules{}) },
			source:    Values{},
			want:      true,
			wantValue: []string{},
		},
		{
			desc:      "trimmed",
			field:     func() *Field { return NewField("name", KindString, Rules{Required: true}) },
			source:    Values{"name": {"  John "}},
			want:      true,
			wantValue: "John",
		},
		{
			desc:     "min_length",
			field:    func() *Field { return NewField("name", KindString, Rules{MinLength: 3}) },
			source:   Values{"name": {"ab"}},
			wantKind: MinLengthError,
			wantMsg:  "The name must be at least 3 characters long.",
		},
		{
			desc:      "min_length_ok",
			field:     func() *Field { return NewField("name", KindString, Rules{MinLength: 3}) },
			source:    Values{"name": {"abc"}},
			want:      true,
			wantValue: "abc",
		},
		{
			desc:     "max_length",
			field:    func() *Field { return NewField("name", KindString, Rules{MaxLength: 3}) },
			source:   Values{"name": {"abcd"}},
			wantKind: MaxLengthError,
			wantMsg:  "The name may not be longer than 3 characters.",
		},
		{
			desc:      "max_length_graphemes",
			field:     func() *Field { return NewField("name", KindString, Rules{MaxLength: 1}) },
			source:    Values{"name": {"é"}},
			want:      true,
			wantValue: "é",
		},
		{
			desc:     "min_length_list",
			field:    func() *Field { return NewField("tags", KindCheckboxes, Rules{MinLength: 2, AllowUnlistedItems: true}) },
			source:   Values{"tags[]": {"a"}},
			wantKind: MinLengthError,
			wantMsg:  "The tags must have at least 2 selected items.",
		},
		{
			desc:     "type_email",
			field:    func() *Field { return NewField("email", KindEmail, Rules{}) },
			source:   Values{"email": {"not-an-email"}},
			wantKind: TypeError,
			wantMsg:  "The email must be a valid email address.",
		},
		{
			desc:     "type_generic_message",
			field:    func() *Field { return NewField("code", KindString, Rules{Pattern: regexp.MustCompile(`^[A-Z]{3}$`)}) },
			source:   Values{"code": {"abc"}},
			wantKind: TypeError,
			wantMsg:  "The code is invalid.",
		},
		{
			desc:      "pattern_overrides_kind",
			field:     func() *Field { return NewField("code", KindInt, Rules{Pattern: regexp.MustCompile(`^[A-Z]{3}$`)}) },
			source:    Values{"code": {"ABC"}},
			want:      true,
			wantValue: "ABC",
		},
		{
			desc: "sanitized",
			field: func() *Field {
				return NewField("bio", KindText, Rules{Sanitizers: []Sanitizer{Lower, StripTags}})
			},
			source:    Values{"bio": {" <b>HeLLo</b> "}},
			want:      true,
			wantValue: "hello",
		},
		{
			desc:     "hint_required",
			field:    func() *Field { return NewField("city", KindString, Rules{Required: true}).SetHint("Your city") },
			source:   Values{"city": {"Your city"}},
			wantKind: HintError,
		},
		{
			desc:      "hint_optional",
			field:     func() *Field { return NewField("city", KindString, Rules{}).SetHint("Your city") },
			source:    Values{"city": {"Your city"}},
			want:      true,
			wantValue: "",
		},
		{
			desc: "list_membership",
			field: func() *Field {
				return NewField("size", KindSelect, Rules{}).SetOptions(Option{Value: "s"}, Option{Value: "m"})
			},
			source:   Values{"size": {"xl"}},
			wantKind: ListMembershipError,
			wantMsg:  "The selected size is invalid.",
		},
		{
			desc: "list_membership_ok",
			field: func() *Field {
				return NewField("size", KindRadio, Rules{}).SetOptions(Option{Value: "s"}, Option{Value: "m"})
			},
			source:    Values{"size": {"m"}},
			want:      true,
			wantValue: "m",
		},
		{
			desc: "list_membership_list_item",
			field: func() *Field {
				return NewField("tags", KindCheckboxes, Rules{}).SetOptions(Option{Value: "a"}, Option{Value: "b"})
			},
			source:   Values{"tags[]": {"a", "c"}},
			wantKind: ListMembershipError,
		},
		{
			desc: "list_membership_unlisted_allowed",
			field: func() *Field {
				return NewField("size", KindSelect, Rules{AllowUnlistedItems: true}).SetOptions(Option{Value: "s"})
			},
			source:    Values{"size": {"xl"}},
			want:      true,
			wantValue: "xl",
		},
		{
			desc: "list_membership_live_options",
			field: func() *Field {
				return NewField("size", KindSelect, Rules{}).
					SetOptions(Option{Value: "s"}).
					SetOptionsFunc(func() []Option { return []Option{{Value: "xl"}} })
			},
			source:    Values{"size": {"xl"}},
			want:      true,
			wantValue: "xl",
		},
		{
			desc:     "min_value",
			field:    func() *Field { return NewField("age", KindFloat, Rules{MinValue: Float(18), MaxValue: Float(120)}) },
			source:   Values{"age": {"12"}},
			wantKind: MinValueError,
			wantMsg:  "The age must be at least 18.",
		},
		{
			desc:     "max_value_localized",
			field:    func() *Field { return NewField("price", KindFloat, Rules{MaxValue: Float(1000.5)}) },
			source:   Values{"price": {"1.234,56"}},
			wantKind: MaxValueError,
			wantMsg:  "The price may not be greater than 1000.5.",
		},
		{
			desc:      "value_in_range",
			field:     func() *Field { return NewField("price", KindFloat, Rules{MinValue: Float(10), MaxValue: Float(2000)}) },
			source:    Values{"price": {"1,234.56"}},
			want:      true,
			wantValue: "1,234.56",
		},
		{
			desc:     "unparsable_value",
			field:    func() *Field { return NewField("price", KindString, Rules{MaxValue: Float(10)}) },
			source:   Values{"price": {"cheap"}},
			wantKind: MaxValueError,
		},
		{
			desc: "external_hook",
			field: func() *Field {
				return NewField("username", KindString, Rules{Hooks: []Hook{
					{Name: "not_in", Func: notIn, Args: []any{"admin", "root"}},
				}})
			},
			source:   Values{"username": {"admin"}},
			wantKind: ExternalValidationError,
			wantMsg:  "The username is invalid.",
		},
		{
			desc: "external_hook_ok",
			field: func() *Field {
				return NewField("username", KindString, Rules{Hooks: []Hook{
					{Name: "not_in", Func: notIn, Args: []any{"admin", "root"}},
				}})
			},
			source:    Values{"username": {"john"}},
			want:      true,
			wantValue: "john",
		},
		{
			desc: "external_hook_message",
			field: func() *Field {
				return NewField("username", KindString, Rules{Hooks: []Hook{
					{Name: "not_in", Func: notIn, Args: []any{"admin"}, Message: "The :field is reserved."},
				}})
			},
			source:   Values{"username": {"admin"}},
			wantKind: ExternalValidationError,
			wantMsg:  "The username is reserved.",
		},
		{
			desc: "custom_message",
			field: func() *Field {
				return NewField("name", KindString, Rules{MinLength: 5, Messages: map[ErrorKind]string{
					MinLengthError: "Too short, :min minimum.",
				}})
			},
			source:   Values{"name": {"abc"}},
			wantKind: MinLengthError,
			wantMsg:  "Too short, 5 minimum.",
		},
		{
			desc: "position_placeholder",
			field: func() *Field {
				return NewField("name", KindString, Rules{MinLength: 3, Messages: map[ErrorKind]string{
					MinLengthError: "Entry :position of :field is too short.",
				}}).SetDynamic(true)
			},
			source:   Values{"name": {"abc"}, "name_1": {"ab"}, "name_dynamic": {"1"}},
			position: 1,
			wantKind: MinLengthError,
			wantMsg:  "Entry 1 of name is too short.",
		},
		{
			desc:     "label",
			field:    func() *Field { return NewField("name", KindString, Rules{Required: true}).SetLabel("full name") },
			source:   Values{},
			wantKind: RequiredError,
			wantMsg:  "The full name is required.",
		},
		{
			desc:      "default_value",
			field:     func() *Field { return NewField("country", KindString, Rules{Required: true}).SetDefault("FR") },
			source:    Values{},
			want:      true,
			wantValue: "FR",
		},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			field := c.field()
			newTestForm(c.source, field)

			v := field.Validator()
			assert.Equal(t, c.want, v.Validate(c.position))

			value, ok := v.ValidValue(c.position)
			if c.want {
				assert.Nil(t, v.Error(c.position))
				assert.True(t, ok)
				assert.Equal(t, c.wantValue, value)
				return
			}
			assert.False(t, ok)
			require.NotNil(t, v.Error(c.position))
			assert.Equal(t, c.wantKind, v.Error(c.position).Kind)
			assert.Equal(t, field.Name(), v.Error(c.position).Field)
			if c.wantMsg != "" {
				assert.Equal(t, c.wantMsg, v.Error(c.position).Message)
			}
		})
	}
}

func notIn(value any, args ...any) bool {
	for _, arg := range args {
		if value == arg {
			return false
		}
	}
	return true
}

func TestValidatorIdempotent(t *testing.T) {
	field := NewField("name", KindString, Rules{MinLength: 3})
	newTestForm(Values{"name": {"ab"}}, field)

	first := field.Validator().Validate(0)
	firstErr := *field.Validator().Error(0)
	second := field.Validator().Validate(0)
	assert.Equal(t, first, second)
	assert.Equal(t, firstErr, *field.Validator().Error(0))
	assert.Len(t, field.Validator().Errors(), 1)
}

func TestValidatorRequiredCondition(t *testing.T) {
	x := NewField("x", KindString, Rules{})
	y := NewField("y", KindString, Rules{})
	_, err := x.AddCondition(PropertyRequired, true, MatchAll, ComparisonDescriptor{Subject: y, Operator: Equal, Value: "yes"})
	require.NoError(t, err)
	form := newTestForm(Values{"y": {"YES"}, "x": {""}}, x, y)

	assert.True(t, x.Validator().Required(0))
	assert.False(t, x.Validator().DefaultRequired())
	assert.False(t, x.Validator().Validate(0))
	assert.Equal(t, RequiredError, x.Validator().Error(0).Kind)
	assert.False(t, x.Validator().Rules().Required)

	form.SetSource(Values{"y": {"no"}, "x": {""}})
	assert.False(t, x.Validator().Required(0))
	assert.True(t, x.Validator().Validate(0))
}

func TestValidatorConditionNotMetOverridesDeclared(t *testing.T) {
	x := NewField("x", KindString, Rules{Required: true})
	y := NewField("y", KindString, Rules{})
	_, err := x.AddCondition(PropertyRequired, true, MatchAll, ComparisonDescriptor{Subject: y, Operator: NotEmpty})
	require.NoError(t, err)
	newTestForm(Values{}, x, y)

	assert.False(t, x.Validator().Required(0))
	assert.True(t, x.Validator().Validate(0))
	assert.True(t, x.Validator().DefaultRequired())
}

func TestValidatorEnabledVisible(t *testing.T) {
	for _, property := range []Property{PropertyEnabled, PropertyVisible} {
		t.Run(string(property), func(t *testing.T) {
			x := NewField("x", KindString, Rules{Required: true})
			mode := NewField("mode", KindString, Rules{})
			_, err := x.AddCondition(property, true, MatchAll, ComparisonDescriptor{Subject: mode, Operator: Equal, Value: "advanced"})
			require.NoError(t, err)
			form := newTestForm(Values{"mode": {"simple"}}, x, mode)

			assert.False(t, x.Validator().Required(0))
			assert.True(t, x.Validator().Validate(0))

			form.SetSource(Values{"mode": {"advanced"}})
			assert.True(t, x.Validator().Required(0))
			assert.False(t, x.Validator().Validate(0))
		})
	}

	t.Run("cannot_make_required", func(t *testing.T) {
		x := NewField("x", KindString, Rules{})
		mode := NewField("mode", KindString, Rules{})
		_, err := x.AddCondition(PropertyVisible, true, MatchAll, ComparisonDescriptor{Subject: mode, Operator: Equal, Value: "advanced"})
		require.NoError(t, err)
		newTestForm(Values{"mode": {"advanced"}}, x, mode)
		assert.False(t, x.Validator().Required(0))
	})
}

func TestValidatorActiveArea(t *testing.T) {
	address := NewField("address", KindString, Rules{Required: true})
	billing := NewGroup("billing").Add(address)
	toggle := billing.SetActiveArea("billing_enabled")
	form := newTestForm(Values{}, billing)

	assert.Same(t, toggle, billing.Toggle())
	assert.False(t, billing.IsActive(0))
	assert.True(t, address.Validator().Validate(0))

	form.SetSource(Values{"billing_enabled": {"1"}, "address": {""}})
	assert.True(t, billing.IsActive(0))
	assert.False(t, address.Validator().Validate(0))
	assert.Equal(t, RequiredError, address.Validator().Error(0).Kind)
}

func TestValidatorDynamicPositions(t *testing.T) {
	email := NewField("email", KindEmail, Rules{Required: true}).SetDynamic(true)
	form := newTestForm(Values{"email_dynamic": {"1"}, "email": {"a@example.org"}, "email_1": {""}}, email)

	assert.True(t, email.Validator().Validate(0))
	assert.True(t, email.Validator().Validate(1), "positions other than 0 are never individually required")

	email.SetRemovable(true)
	assert.False(t, email.Validator().Validate(1))
	assert.Equal(t, RequiredError, email.Validator().Error(1).Kind)

	form.SetSource(Values{"email_dynamic": {"1"}, "email": {"a@example.org"}, "email_1": {"b"}})
	assert.False(t, email.Validator().Validate(1))
	assert.Equal(t, TypeError, email.Validator().Error(1).Kind)
	assert.Equal(t, 1, email.Validator().Error(1).Position)
	assert.True(t, email.Validator().Validate(0))
}

func TestValidatorMatchWith(t *testing.T) {
	cases := []struct {
		source    Values
		desc      string
		wantKind  ErrorKind
		wantValue bool
		want      bool
	}{
		{desc: "equal", source: Values{"password": {"secret"}, "confirm": {"secret"}}, want: true, wantValue: true},
		{desc: "mismatch", source: Values{"password": {"secret"}, "confirm": {"other"}}, wantKind: MatchWithError},
		{desc: "both_empty", source: Values{"password": {""}, "confirm": {""}}, want: true},
		{desc: "both_absent", source: Values{}, want: true},
		{desc: "reference_empty", source: Values{"confirm": {"secret"}}, wantKind: MatchWithError},
		{desc: "reference_filled_confirm_empty", source: Values{"password": {"secret1"}, "confirm": {""}}, wantKind: MatchWithError},
		{desc: "reference_filled_confirm_absent", source: Values{"password": {"secret1"}}, wantKind: MatchWithError},
		{desc: "reference_blank_confirm_empty", source: Values{"password": {"  "}, "confirm": {""}}, want: true},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			password := NewField("password", KindPassword, Rules{})
			confirm := NewField("confirm", KindPassword, Rules{MatchWith: password})
			newTestForm(c.source, password, confirm)

			assert.Equal(t, c.want, confirm.Validator().Validate(0))
			_, ok := confirm.Validator().ValidValue(0)
			assert.Equal(t, c.wantValue, ok)
			if !c.want {
				assert.Equal(t, c.wantKind, confirm.Validator().Error(0).Kind)
				assert.Equal(t, "The confirm must match the password.", confirm.Validator().Error(0).Message)
			}
		})
	}
}

func TestValidatorOverrideError(t *testing.T) {
	email := NewField("email", KindEmail, Rules{})
	newTestForm(Values{"email": {"a@example.org"}}, email)

	email.Validator().SetOverrideError(0, "This email is already taken.")
	assert.False(t, email.Validator().Validate(0))
	err := email.Validator().Error(0)
	assert.Equal(t, OverrideError, err.Kind)
	assert.Equal(t, "This email is already taken.", err.Message)
	_, ok := email.Validator().ValidValue(0)
	assert.False(t, ok)

	email.Validator().ClearOverrideError(0)
	assert.True(t, email.Validator().Validate(0))
}

func TestValidatorOverrideErrorWinsOverRuleError(t *testing.T) {
	name := NewField("name", KindString, Rules{Required: true})
	newTestForm(Values{}, name)
	name.Validator().SetOverrideError(0, "custom")
	assert.False(t, name.Validator().Validate(0))
	assert.Equal(t, OverrideError, name.Validator().Error(0).Kind)
}

func TestValidatorSpreadRows(t *testing.T) {
	rows := NewField("rows[]", KindString, Rules{}).SetSpreadRows(true)
	newTestForm(Values{"rows[]": {"first", "second"}}, rows)

	require.True(t, rows.Validator().Validate(0))
	first, ok := rows.Validator().ValidValue(0)
	assert.True(t, ok)
	assert.Equal(t, "first", first)
	second, ok := rows.Validator().ValidValue(1)
	assert.True(t, ok)
	assert.Equal(t, "second", second)
}

func TestValidatorHooksReceiveSanitizedValue(t *testing.T) {
	var received any
	field := NewField("name", KindString, Rules{
		Sanitizers: []Sanitizer{Upper},
		Hooks: []Hook{{Name: "capture", Func: func(value any, _ ...any) bool {
			received = value
			return true
		}}},
	})
	newTestForm(Values{"name": {" john "}}, field)

	assert.True(t, field.Validator().Validate(0))
	assert.Equal(t, "JOHN", received)
}

func TestValidatorOnlyListItemsConfig(t *testing.T) {
	size := NewField("size", KindSelect, Rules{}).SetOptions(Option{Value: "s"})
	form := newTestForm(Values{"size": {"xl"}}, size)
	form.Config.Set("validation.onlyListItems", false)
	assert.True(t, size.Validator().Validate(0))
}

func TestValidatorTrimValuesConfig(t *testing.T) {
	name := NewField("name", KindString, Rules{})
	form := newTestForm(Values{"name": {" john "}}, name)
	form.Config.Set("validation.trimValues", false)
	assert.True(t, name.Validator().Validate(0))
	value, _ := name.Validator().ValidValue(0)
	assert.Equal(t, " john ", value)

	name.Validator().rules.Sanitizers = []Sanitizer{Trim}
	assert.True(t, name.Validator().Validate(0))
	value, _ = name.Validator().ValidValue(0)
	assert.Equal(t, "john", value)
}

func TestValidatorLanguage(t *testing.T) {
	name := NewField("name", KindString, Rules{Required: true})
	form := newTestForm(Values{}, name)
	form.Language = defaultLanguage
	assert.False(t, name.Validator().Validate(0))
	assert.True(t, strings.HasPrefix(name.Validator().Error(0).Message, "The name"))
}
