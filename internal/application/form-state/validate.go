package formstate

import (
	"strings"

	stderrors "now-hiring/internal/common/errors"
	"now-hiring/internal/common/validation"
	"now-hiring/internal/models"
)

// ValidateForSubmit is the check the form runs before sending: the required
// fields, the position catalog and the truthfulness acknowledgement.
// It returns a VALIDATION_FAILED StandardError whose metadata lists the fields.
func ValidateForSubmit(record *models.ApplicationRecord, positions []string) error {
	result, err := validation.ValidateApplication(record, validation.ApplicationSchemaOptions{
		Positions:            positions,
		RequireCertification: true,
	})
	if err != nil {
		return stderrors.NewInternalError(err)
	}
	if result.Valid {
		return nil
	}
	fields := result.Fields()
	return stderrors.NewValidationFailedError(strings.Join(fields, ", ")).
		WithMetadata("fields", fields)
}
