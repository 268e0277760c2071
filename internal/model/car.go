package model

// Car is a rentable vehicle. Available is a hint maintained by the
// reservation engine and never decides whether a booking is accepted.
type Car struct {
	ID          int64   `db:"id" json:"id"`
	Model       string  `db:"model" json:"model"`
	Type        string  `db:"type" json:"type"`
	PricePerDay Money   `db:"price_per_day" json:"price_per_day"`
	Available   bool    `db:"available" json:"available"`
	LocationID  *int64  `db:"location_id" json:"location_id"`
	ImageURL    *string `db:"image_url" json:"image_url"`
}

// CarTypes lists the vehicle categories the catalog knows.
var CarTypes = []string{"Economy", "Compact", "Sedan", "SUV", "Luxury", "Luxury SUV", "Truck", "Sports"}

// IsCarType reports whether t is one of CarTypes.
func IsCarType(t string) bool {
	for _, c := range CarTypes {
		if c == t {
			return true
		}
	}
	return false
}

// CarFilter narrows a catalog listing. Nil fields are not applied.
type CarFilter struct {
	MinPrice   *Money
	MaxPrice   *Money
	Type       string
	LocationID *int64
}

// Location is a pickup location.
type Location struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
