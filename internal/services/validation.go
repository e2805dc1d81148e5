package services

import (
	"errors"
	"fmt"

	"horologe/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

// EventPublisher is the slice of the AMQP client the services need.
// A nil publisher disables event publication.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// toValidationError converts validator violations into the application's
// field-level validation error. Other errors pass through unchanged.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}
		return &apperrors.ValidationError{Fields: fields}
	}
	return err
}
