package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderAuthorization  = "Authorization"
	HeaderUserAgent      = "User-Agent"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized  = "Unauthorized"
	MsgBadRequest    = "Invalid request"
	MsgInternalError = "Internal server error"
)

// Offer messages
const (
	MsgOfferDeleted  = "Offer deleted successfully"
	MsgOfferNotFound = "No offer were find with the id : "
	MsgNotOwner      = "You are not the owner of the offer. You can't modify it."
)
