// Package datastore provides error handling helpers for database operations
package datastore

import (
	"fmt"

	"github.com/JaySorawit/DustMeasuringDashboard/internal/errors"
)

// dbError creates a properly categorized database error with context
func dbError(err error, operation, priority string, context ...any) error {
	builder := errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("operation", operation)

	if priority != "" {
		builder = builder.Priority(priority)
	}

	// Add context pairs
	for i := 0; i < len(context)-1; i += 2 {
		if key, ok := context[i].(string); ok {
			builder = builder.Context(key, context[i+1])
		}
	}

	return builder.Build()
}

// validationError creates a validation error for bad caller input
func validationError(message, field string, value any) error {
	return errors.Newf("%s", message).
		Component("datastore").
		Category(errors.CategoryValidation).
		Context("field", field).
		Context("value", fmt.Sprintf("%v", value)).
		Build()
}

// notFoundError creates an error for a missing record
func notFoundError(resourceType, identifier string) error {
	return errors.Newf("%s not found: %s", resourceType, identifier).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Context("resource_type", resourceType).
		Context("identifier", identifier).
		Build()
}

// conflictError creates an error for a record that already exists
func conflictError(resourceType, identifier string) error {
	return errors.Newf("%s already exists: %s", resourceType, identifier).
		Component("datastore").
		Category(errors.CategoryConflict).
		Context("resource_type", resourceType).
		Context("identifier", identifier).
		Build()
}
