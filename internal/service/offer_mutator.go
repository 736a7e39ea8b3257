package service

import (
	"github.com/Payphone-Digital/marketplace/internal/model"
	"github.com/Payphone-Digital/marketplace/pkg/validation"
)

// OfferChanges are the candidate values of a modify request. Details are raw
// body values and are not validated.
type OfferChanges struct {
	Title       validation.Result
	Description validation.Result
	Price       validation.Result
	Details     model.ProductDetails
}

// ApplyOfferUpdate overwrites the fields whose value checked valid and rebuilds
// every detail slot, keeping the stored value where the input is empty.
func ApplyOfferUpdate(offer *model.Offer, changes OfferChanges) {
	if changes.Title.Valid {
		offer.ProductName = changes.Title.Text()
	}
	if changes.Description.Valid {
		offer.ProductDescription = changes.Description.Text()
	}
	if changes.Price.Valid {
		offer.ProductPrice = changes.Price.Float()
	}

	prev := offer.Details()
	offer.SetDetails(model.ProductDetails{
		Brand:     pick(changes.Details.Brand, prev.Brand),
		Size:      pick(changes.Details.Size, prev.Size),
		Condition: pick(changes.Details.Condition, prev.Condition),
		Color:     pick(changes.Details.Color, prev.Color),
		City:      pick(changes.Details.City, prev.City),
	})
}

func pick(input, current string) string {
	if input != "" {
		return input
	}
	return current
}
