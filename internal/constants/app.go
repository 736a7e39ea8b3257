package constants

// Application Information
const (
	AppName    = "Marketplace Offers"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix    = "market:"
	CacheKeyOfferList = CacheKeyPrefix + "offers:list:"
)

// Image store kinds
const (
	ImageStoreLocal      = "local"
	ImageStoreCloudinary = "cloudinary"
)
