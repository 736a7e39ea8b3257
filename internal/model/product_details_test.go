package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestProductDetails_MarshalKeepsSlotOrder(t *testing.T) {
	d := ProductDetails{Size: "M", Condition: "new", Color: "blue", City: "Paris"}

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `[{},{"SIZE":"M"},{"CONDITION":"new"},{"COLOR":"blue"},{"CITY":"Paris"}]`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}

func TestProductDetails_UnmarshalByKey(t *testing.T) {
	var d ProductDetails
	err := json.Unmarshal([]byte(`[{"BRAND":"Zara"},{"SIZE":"L"},{},{"COLOR":"red"},{"CITY":"Lyon"}]`), &d)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	want := ProductDetails{Brand: "Zara", Size: "L", Color: "red", City: "Lyon"}
	if d != want {
		t.Errorf("Expected %+v, got %+v", want, d)
	}

	if err := json.Unmarshal([]byte(`[{"WEIGHT":"1kg"}]`), &d); err == nil {
		t.Error("Expected error for unknown detail key")
	}
}

func TestOffer_JSONColumns(t *testing.T) {
	o := Offer{}
	o.SetDetails(ProductDetails{Brand: "Nike"})

	if o.Image() != nil {
		t.Error("Expected no image on a new offer")
	}

	o.SetImage(&ProductImage{PublicID: "p", Folder: "f", SecureURL: "u"})
	value, err := o.ProductImage.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if string(value.([]byte)) != `{"public_id":"p","folder":"f","secure_url":"u"}` {
		t.Errorf("Unexpected stored image %v", value)
	}

	if o.Details().Brand != "Nike" {
		t.Errorf("Expected Nike, got %s", o.Details().Brand)
	}
}

func TestOffer_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	o := Offer{OwnerID: owner}

	tests := []struct {
		name      string
		accountID uuid.UUID
		want      bool
	}{
		{"owner", owner, true},
		{"someone else", uuid.New(), false},
		{"anonymous", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := o.IsOwnedBy(tt.accountID); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
