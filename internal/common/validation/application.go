package validation

import (
	"now-hiring/internal/models"
)

const nonBlank = `\S`

// ApplicationSchemaOptions tunes the submission schema for where it runs.
type ApplicationSchemaOptions struct {
	// Positions restricts the position field; empty disables the check.
	Positions []string
	// RequireCertification demands certifyTrue == true. The form enforces
	// this before sending; the server does not.
	RequireCertification bool
}

// ApplicationSchema builds the JSON schema for a submission document.
func ApplicationSchema(opts ApplicationSchemaOptions) JSONSchema {
	schema := JSONSchema{
		Type:                 "object",
		Properties:           map[string]Property{},
		Required:             models.RequiredFields(),
		AdditionalProperties: true,
	}

	for _, name := range schema.Required {
		schema.Properties[name] = Property{Type: "string", Pattern: nonBlank}
	}

	email := schema.Properties["email"]
	email.Format = "email"
	schema.Properties["email"] = email

	if len(opts.Positions) > 0 {
		position := schema.Properties["position"]
		position.Enum = make([]interface{}, len(opts.Positions))
		for i, p := range opts.Positions {
			position.Enum[i] = p
		}
		schema.Properties["position"] = position
	}

	schema.Properties["payType"] = Property{
		Type: "string",
		Enum: []interface{}{models.PayHourly, models.PaySalary},
	}
	schema.Properties["employmentDesired"] = Property{
		Type: "string",
		Enum: []interface{}{
			models.EmploymentFullTime, models.EmploymentPartTime,
			models.EmploymentSeasonal, models.EmploymentTemporary,
		},
	}

	if opts.RequireCertification {
		schema.Properties["certifyTrue"] = Property{Type: "boolean", Enum: []interface{}{true}}
		schema.Required = append(schema.Required, "certifyTrue")
	}

	return schema
}

// ApplicationDocument flattens the record's scalars into a JSON-schema document.
// Empty text and unanswered flags are left out so "required" reports them.
func ApplicationDocument(r *models.ApplicationRecord) map[string]interface{} {
	doc := make(map[string]interface{})
	for _, f := range models.ScalarFields() {
		switch f.Kind {
		case models.KindText:
			if v := f.Text(r); v != "" {
				doc[f.Name] = v
			}
		case models.KindFlag:
			if v := f.Flag(r); v != nil {
				doc[f.Name] = *v
			}
		}
	}
	return doc
}

// ValidateApplication runs the submission schema against r.
func ValidateApplication(r *models.ApplicationRecord, opts ApplicationSchemaOptions) (*ValidationResult, error) {
	return Validate(ApplicationDocument(r), ApplicationSchema(opts))
}
