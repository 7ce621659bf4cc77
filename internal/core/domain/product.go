package domain

import "time"

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductPatch holds the fields of a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil && p.Stock == nil
}

// SortOrder is the direction of a list sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sortable product fields as exposed on the API.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByStock     = "stock"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
)

// SortableProductFields lists the values accepted for sortBy.
var SortableProductFields = []string{SortByName, SortByPrice, SortByStock, SortByCreatedAt, SortByUpdatedAt}

// IsSortableProductField reports whether field may be used as sortBy.
func IsSortableProductField(field string) bool {
	for _, f := range SortableProductFields {
		if f == field {
			return true
		}
	}
	return false
}
