package constants

// Offer field limits
const (
	MinTitleLength       = 1
	MaxTitleLength       = 50
	MinDescriptionLength = 1
	MaxDescriptionLength = 500
	MinPrice             = 0
	MaxPrice             = 100000
)

// Account field limits
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	MinUsernameLength = 2
	MaxUsernameLength = 50
)

// Offer body and file field names
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldBrand       = "brand"
	FieldSize        = "size"
	FieldCondition   = "condition"
	FieldColor       = "color"
	FieldCity        = "city"
	FieldPicture     = "picture"
)

// Validation error codes
const (
	ValidationRequired = "required"
	ValidationType     = "type"
	ValidationMin      = "min"
	ValidationMax      = "max"
	ValidationInteger  = "integer"
	ValidationEnum     = "enum"
	ValidationSize     = "size"
	ValidationMedia    = "media_type"
)
