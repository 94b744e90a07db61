// Package model defines the data structures used throughout the application.
package model

import "time"

// Category is the fixed set of sweet categories. Stored lower-case; any
// value outside the enumeration is rejected before persistence.
type Category = string

const (
	CategoryChocolate Category = "chocolate"
	CategoryCandy     Category = "candy"
	CategoryGummy     Category = "gummy"
	CategoryLollipop  Category = "lollipop"
	CategoryToffee    Category = "toffee"
	CategoryOther     Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryChocolate,
	CategoryCandy,
	CategoryGummy,
	CategoryLollipop,
	CategoryToffee,
	CategoryOther,
}

// ValidCategory reports whether c is a member of the enumeration.
// Case-sensitive: categories are stored and compared lower-case.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Creator is the lightweight identity summary attached to a sweet on read.
// Only username and email are exposed; never the full user record.
type Creator struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Sweet is the inventory record.
//
// CreatedByID is the creating user's internal ID as persisted; it is set
// once at creation and never reassigned. CreatedBy is the expanded summary
// filled in by the repository's read queries (a JOIN against users).
type Sweet struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description,omitempty"`
	CreatedByID string    `json:"-"`
	CreatedBy   Creator   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
