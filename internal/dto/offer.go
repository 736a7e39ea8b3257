package dto

import (
	"github.com/Payphone-Digital/marketplace/internal/model"
	"github.com/google/uuid"
)

type OwnerResponse struct {
	ID      uuid.UUID     `json:"_id"`
	Account PublicAccount `json:"account"`
}

// OfferResponse is the public projection of an offer. The owner is reduced to
// its public account fields.
type OfferResponse struct {
	ID                 uuid.UUID            `json:"_id"`
	ProductName        string               `json:"product_name"`
	ProductDescription string               `json:"product_description"`
	ProductPrice       float64              `json:"product_price"`
	ProductDetails     model.ProductDetails `json:"product_details"`
	ProductImage       *model.ProductImage  `json:"product_image,omitempty"`
	Owner              OwnerResponse        `json:"owner"`
}

type OfferListResponse struct {
	Count  int64           `json:"count"`
	Offers []OfferResponse `json:"offers"`
}

func ToOfferResponse(o *model.Offer) OfferResponse {
	return OfferResponse{
		ID:                 o.ID,
		ProductName:        o.ProductName,
		ProductDescription: o.ProductDescription,
		ProductPrice:       o.ProductPrice,
		ProductDetails:     o.Details(),
		ProductImage:       o.Image(),
		Owner: OwnerResponse{
			ID: o.OwnerID,
			Account: PublicAccount{
				Username: o.Owner.Username,
				Avatar:   o.Owner.Avatar,
			},
		},
	}
}

func ToOfferListResponse(count int64, offers []model.Offer) OfferListResponse {
	out := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		out = append(out, ToOfferResponse(&offers[i]))
	}
	return OfferListResponse{Count: count, Offers: out}
}
