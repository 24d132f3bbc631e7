package lang

var enUS = &Language{
	name: "en-US",
	lines: map[string]string{
		"malformed-submission": "The submission must be a JSON object",
		"invalid-form":         "The submitted form contains errors.",
	},
	validation: validationLines{
		rules: map[string]string{
			"required":            "The :field is required.",
			"hint":                "The :field is required.",
			"min_length":          "The :field must be at least :min characters long.",
			"min_length.list":     "The :field must have at least :min selected items.",
			"max_length":          "The :field may not be longer than :max characters.",
			"max_length.list":     "The :field may not have more than :max selected items.",
			"match_with":          "The :field must match the :other.",
			"type":                "The :field is invalid.",
			"type.email":          "The :field must be a valid email address.",
			"type.url":            "The :field must be a valid URL.",
			"type.int":            "The :field must be an integer.",
			"type.float":          "The :field must be a number.",
			"type.date":           "The :field must be a valid date.",
			"type.uuid":           "The :field must be a valid UUID.",
			"type.ip":             "The :field must be a valid IP address.",
			"type.alpha":          "The :field may only contain letters.",
			"type.digit":          "The :field may only contain digits.",
			"list_membership":     "The selected :field is invalid.",
			"min_value":           "The :field must be at least :min.",
			"max_value":           "The :field may not be greater than :max.",
			"external_validation": "The :field is invalid.",
		},
		fields: map[string]string{},
	},
}
