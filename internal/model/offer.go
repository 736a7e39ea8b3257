package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductImage references a picture held by the image store.
type ProductImage struct {
	PublicID  string `json:"public_id"`
	Folder    string `json:"folder"`
	SecureURL string `json:"secure_url"`
}

type Offer struct {
	ID                 uuid.UUID                          `gorm:"column:id;type:uuid;primaryKey" json:"_id"`
	ProductName        string                             `gorm:"column:product_name;type:varchar(50);not null" json:"product_name"`
	ProductDescription string                             `gorm:"column:product_description;type:varchar(500);not null" json:"product_description"`
	ProductPrice       float64                            `gorm:"column:product_price;not null;index:idx_offers_product_price" json:"product_price"`
	ProductDetails     datatypes.JSONType[ProductDetails] `gorm:"column:product_details;type:jsonb;not null" json:"product_details"`
	ProductImage       datatypes.JSONType[*ProductImage]  `gorm:"column:product_image;type:jsonb" json:"product_image"`
	OwnerID            uuid.UUID                          `gorm:"column:owner_id;type:uuid;not null;index:idx_offers_owner_id" json:"-"`
	Owner              Account                            `gorm:"foreignKey:OwnerID" json:"owner"`
	CreatedAt          time.Time                          `gorm:"index:idx_offers_created_at" json:"created_at"`
	UpdatedAt          time.Time                          `json:"updated_at"`
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsOwnedBy is the single ownership check used before any mutation or deletion.
func (o *Offer) IsOwnedBy(accountID uuid.UUID) bool {
	return accountID != uuid.Nil && o.OwnerID == accountID
}

func (o *Offer) Details() ProductDetails {
	return o.ProductDetails.Data()
}

func (o *Offer) SetDetails(d ProductDetails) {
	o.ProductDetails = datatypes.NewJSONType(d)
}

// Image returns nil when no picture is attached.
func (o *Offer) Image() *ProductImage {
	return o.ProductImage.Data()
}

func (o *Offer) SetImage(img *ProductImage) {
	o.ProductImage = datatypes.NewJSONType(img)
}
