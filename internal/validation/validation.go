// Package validation implements the form-level rules applied to restaurant
// payloads before they reach the backend.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"restaurant-admin/internal/model"

	"github.com/google/uuid"
)

// Field limits.
const (
	NameMinLength        = 3
	NameMaxLength        = 100
	DescriptionMinLength = 10
	DescriptionMaxLength = 500
	AddressMaxLength     = 200
	CategoryMaxLength    = 100
	MaxTableCapacity     = 50
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-()]{6,19}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlPattern   = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)
)

// Validator checks restaurant payloads. The zero value is ready to use.
type Validator struct{}

// New creates a new validator.
func New() *Validator {
	return &Validator{}
}

// ValidateInput checks a create payload. It returns a model.DomainError with
// code VALIDATION_FAILED listing every rejected field.
func (v *Validator) ValidateInput(in model.RestaurantInput) error {
	var errs []model.FieldError
	errs = appendIf(errs, checkName(in.Name))
	errs = appendIf(errs, checkDescription(in.Description))
	errs = appendIf(errs, checkAddress(in.Address))
	errs = appendIf(errs, checkPhone(in.Phone))
	errs = appendIf(errs, checkEmail(in.Email))
	if in.Website != nil {
		errs = appendIf(errs, checkWebsite(*in.Website))
	}
	errs = appendIf(errs, CheckUUID("clientId", in.ClientID))

	if len(errs) > 0 {
		return model.NewValidationError(errs)
	}
	return nil
}

// ValidatePatch checks the fields present in a patch. An empty website is
// allowed and clears the value.
func (v *Validator) ValidatePatch(p model.RestaurantPatch) error {
	var errs []model.FieldError
	if p.Name != nil {
		errs = appendIf(errs, checkName(*p.Name))
	}
	if p.Description != nil {
		errs = appendIf(errs, checkDescription(*p.Description))
	}
	if p.Address != nil {
		errs = appendIf(errs, checkAddress(*p.Address))
	}
	if p.Phone != nil {
		errs = appendIf(errs, checkPhone(*p.Phone))
	}
	if p.Email != nil {
		errs = appendIf(errs, checkEmail(*p.Email))
	}
	if p.Website != nil && *p.Website != "" {
		errs = appendIf(errs, checkWebsite(*p.Website))
	}

	if len(errs) > 0 {
		return model.NewValidationError(errs)
	}
	return nil
}

// ValidateTable checks a table payload.
func (v *Validator) ValidateTable(in model.TableInput) error {
	var errs []model.FieldError
	if in.Number < 1 {
		errs = append(errs, *fieldError("number", "min_value"))
	}
	if in.Capacity < 1 || in.Capacity > MaxTableCapacity {
		errs = append(errs, *fieldError("capacity", "out_of_range"))
	}
	if in.Status != "" && !in.Status.Valid() {
		errs = append(errs, *fieldError("status", "invalid_value"))
	}

	if len(errs) > 0 {
		return model.NewValidationError(errs)
	}
	return nil
}

// ValidateProduct checks a product payload. Price must be non-negative.
func (v *Validator) ValidateProduct(in model.ProductInput) error {
	var errs []model.FieldError
	errs = appendIf(errs, checkName(in.Name))
	if in.Price < 0 {
		errs = append(errs, *fieldError("price", "negative"))
	}
	errs = appendIf(errs, checkLength("category", in.Category, 1, CategoryMaxLength))

	if len(errs) > 0 {
		return model.NewValidationError(errs)
	}
	return nil
}

// ValidateMenu checks a menu assembly payload.
func (v *Validator) ValidateMenu(in model.MenuInput) error {
	var errs []model.FieldError
	errs = appendIf(errs, checkName(in.Name))
	if len(in.ProductIDs) == 0 {
		errs = append(errs, *fieldError("productIds", "required"))
	}
	for _, id := range in.ProductIDs {
		if fe := CheckUUID("productIds", id); fe != nil {
			errs = append(errs, *fe)
			break
		}
	}

	if len(errs) > 0 {
		return model.NewValidationError(errs)
	}
	return nil
}

// CheckUUID rejects values that are not canonical UUIDs.
func CheckUUID(field, value string) *model.FieldError {
	if strings.TrimSpace(value) == "" {
		return fieldError(field, "required")
	}
	if _, err := uuid.Parse(value); err != nil {
		return fieldError(field, "invalid_uuid")
	}
	return nil
}

func checkName(name string) *model.FieldError {
	return checkLength(model.FieldName, name, NameMinLength, NameMaxLength)
}

func checkDescription(description string) *model.FieldError {
	return checkLength(model.FieldDescription, description, DescriptionMinLength, DescriptionMaxLength)
}

func checkAddress(address string) *model.FieldError {
	return checkLength(model.FieldAddress, address, 1, AddressMaxLength)
}

func checkPhone(phone string) *model.FieldError {
	if strings.TrimSpace(phone) == "" {
		return fieldError(model.FieldPhone, "required")
	}
	if !phonePattern.MatchString(phone) {
		return fieldError(model.FieldPhone, "invalid_format")
	}
	return nil
}

func checkEmail(email string) *model.FieldError {
	if strings.TrimSpace(email) == "" {
		return fieldError(model.FieldEmail, "required")
	}
	if !emailPattern.MatchString(email) {
		return fieldError(model.FieldEmail, "invalid_format")
	}
	return nil
}

func checkWebsite(website string) *model.FieldError {
	if !urlPattern.MatchString(website) {
		return fieldError(model.FieldWebsite, "invalid_format")
	}
	return nil
}

func checkLength(field, value string, minLen, maxLen int) *model.FieldError {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fieldError(field, "required")
	}
	n := utf8.RuneCountInString(trimmed)
	if n < minLen {
		return fieldError(field, "min_length")
	}
	if n > maxLen {
		return fieldError(field, "max_length")
	}
	return nil
}

func fieldError(field, rule string) *model.FieldError {
	return &model.FieldError{Field: field, Key: "validation." + field + "." + rule}
}

func appendIf(errs []model.FieldError, fe *model.FieldError) []model.FieldError {
	if fe == nil {
		return errs
	}
	return append(errs, *fe)
}
