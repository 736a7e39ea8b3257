package validation

import (
	"fmt"
	"strings"

	"github.com/Payphone-Digital/marketplace/internal/constants"
)

// CustomMessage returns field-specific messages keyed by failed tag.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		constants.FieldTitle: {
			constants.ValidationRequired: "The title is required",
			constants.ValidationMin:      fmt.Sprintf("The title must contain between %d and %d characters", constants.MinTitleLength, constants.MaxTitleLength),
			constants.ValidationMax:      fmt.Sprintf("The title must contain between %d and %d characters", constants.MinTitleLength, constants.MaxTitleLength),
		},
		constants.FieldDescription: {
			constants.ValidationRequired: "The description is required",
			constants.ValidationMin:      fmt.Sprintf("The description must contain between %d and %d characters", constants.MinDescriptionLength, constants.MaxDescriptionLength),
			constants.ValidationMax:      fmt.Sprintf("The description must contain between %d and %d characters", constants.MinDescriptionLength, constants.MaxDescriptionLength),
		},
		constants.FieldPrice: {
			constants.ValidationRequired: "The price is required",
			constants.ValidationMin:      fmt.Sprintf("The price must be between %d and %d", constants.MinPrice, constants.MaxPrice),
			constants.ValidationMax:      fmt.Sprintf("The price must be between %d and %d", constants.MinPrice, constants.MaxPrice),
		},
		constants.FieldPicture: {
			constants.ValidationSize:  "The picture is too large",
			constants.ValidationMedia: "The picture must be an image",
		},
	}
	return customValidationMessages[field]
}

// DefaultMessage builds a generic message from the descriptor bounds.
func DefaultMessage(d Descriptor, tag string) string {
	field := strings.ToLower(d.Name)

	switch tag {
	case constants.ValidationRequired:
		return fmt.Sprintf("%s is required", field)
	case constants.ValidationType:
		if d.Type == TypeNumber {
			return fmt.Sprintf("%s must be a number", field)
		}
		return fmt.Sprintf("%s must be a %s", field, d.Type)
	case constants.ValidationMin:
		if d.Type == TypeString {
			return fmt.Sprintf("%s must contain at least %d characters", field, d.MinLength)
		}
		if d.Min != nil {
			return fmt.Sprintf("%s must be greater than or equal to %s", field, formatFloat(*d.Min))
		}
	case constants.ValidationMax:
		if d.Type == TypeString {
			return fmt.Sprintf("%s must contain at most %d characters", field, d.MaxLength)
		}
		if d.Max != nil {
			return fmt.Sprintf("%s must be less than or equal to %s", field, formatFloat(*d.Max))
		}
	case constants.ValidationInteger:
		return fmt.Sprintf("%s must be an integer", field)
	case constants.ValidationEnum:
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(enumKeys(d.Enum), ", "))
	case constants.ValidationSize:
		return fmt.Sprintf("%s must not exceed %d bytes", field, d.MaxBytes)
	case constants.ValidationMedia:
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(d.AllowedTypes, ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}

// Message prefers the field's custom message over the default one.
func Message(d Descriptor, tag string) string {
	if msg, ok := CustomMessage(d.Name)[tag]; ok {
		return msg
	}
	return DefaultMessage(d, tag)
}
