package validation

import "github.com/Payphone-Digital/marketplace/internal/constants"

// Offer body parameters.

func TitleRule() Descriptor {
	return Descriptor{
		Name:      constants.FieldTitle,
		Source:    SourceBody,
		Type:      TypeString,
		MinLength: constants.MinTitleLength,
		MaxLength: constants.MaxTitleLength,
		Required:  true,
	}
}

func DescriptionRule() Descriptor {
	return Descriptor{
		Name:      constants.FieldDescription,
		Source:    SourceBody,
		Type:      TypeString,
		MinLength: constants.MinDescriptionLength,
		MaxLength: constants.MaxDescriptionLength,
		Required:  true,
	}
}

func PriceRule() Descriptor {
	return Descriptor{
		Name:     constants.FieldPrice,
		Source:   SourceBody,
		Type:     TypeNumber,
		Min:      Float(constants.MinPrice),
		Max:      Float(constants.MaxPrice),
		Required: true,
	}
}

// PictureRule is optional: a missing picture is not an error.
func PictureRule(maxBytes int64, allowedTypes []string) Descriptor {
	return Descriptor{
		Name:         constants.FieldPicture,
		Source:       SourceFiles,
		Type:         TypeFile,
		MaxBytes:     maxBytes,
		AllowedTypes: allowedTypes,
	}
}

// Offer list query parameters.

func TitleQueryRule() Descriptor {
	return Descriptor{
		Name:      constants.QueryParamTitle,
		Source:    SourceQuery,
		Type:      TypeString,
		MinLength: constants.MinTitleLength,
		MaxLength: constants.MaxTitleLength,
	}
}

func PriceMinRule() Descriptor {
	return Descriptor{
		Name:   constants.QueryParamPriceMin,
		Source: SourceQuery,
		Type:   TypeNumber,
		Min:    Float(constants.MinPrice),
	}
}

func PriceMaxRule() Descriptor {
	return Descriptor{
		Name:   constants.QueryParamPriceMax,
		Source: SourceQuery,
		Type:   TypeNumber,
		Min:    Float(constants.MinPrice),
	}
}

func SortRule() Descriptor {
	return Descriptor{
		Name:   constants.QueryParamSort,
		Source: SourceQuery,
		Type:   TypeString,
		Enum:   constants.SortDirections(),
	}
}

func PageRule() Descriptor {
	return Descriptor{
		Name:        constants.QueryParamPage,
		Source:      SourceQuery,
		Type:        TypeNumber,
		Min:         Float(constants.MinPage),
		IntegerOnly: true,
	}
}
