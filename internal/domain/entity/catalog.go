package entity

import (
	"strings"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
)

// Product is a stocked catalog item delivered on purchase
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	IsActive    bool   `json:"isActive"`
}

// CheckAvailable verifies the product can be sold in the requested quantity
func (p *Product) CheckAvailable(quantity int) error {
	if !p.IsActive {
		return errs.ErrProductInactive
	}
	if quantity <= 0 {
		return errs.ErrInvalidRequest
	}
	if p.Stock < quantity {
		return errs.ErrOutOfStock
	}
	return nil
}

// ServerPlan is a rentable server size priced per month
type ServerPlan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RAM         int    `json:"ram"`  // GB
	CPU         int    `json:"cpu"`  // percent
	Disk        int    `json:"disk"` // GB
	Price       int64  `json:"price"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

// DigitalProduct is a wholesaler SKU with the marked-up customer price
type DigitalProduct struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	BasePrice int64  `json:"basePrice"`
	Price     int64  `json:"price"`
	Available bool   `json:"available"`
}

// FindDigitalProduct looks up a SKU case-insensitively
func FindDigitalProduct(list []DigitalProduct, sku string) (DigitalProduct, bool) {
	for _, p := range list {
		if strings.EqualFold(p.SKU, sku) {
			return p, true
		}
	}
	return DigitalProduct{}, false
}
