package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldCount   = "count"
	ResponseFieldOffers  = "offers"
)

func BuildErrorResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
