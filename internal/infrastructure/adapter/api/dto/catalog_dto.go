package dto

import (
	"time"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// ProductRequest upserts a stocked product
type ProductRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"max=64"`
	Price       int64  `json:"price" binding:"gt=0"`
	Stock       int    `json:"stock" binding:"min=0"`
	IsActive    *bool  `json:"isActive"`
}

// Entity builds the product stored under id
func (r ProductRequest) Entity(id string) *entity.Product {
	return &entity.Product{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		IsActive:    r.IsActive == nil || *r.IsActive,
	}
}

// ServerPlanRequest upserts a server plan
type ServerPlanRequest struct {
	Name        string `json:"name" binding:"required,max=128"`
	RAM         int    `json:"ram" binding:"gt=0"`
	CPU         int    `json:"cpu" binding:"gt=0"`
	Disk        int    `json:"disk" binding:"gt=0"`
	Price       int64  `json:"price" binding:"gt=0"`
	Location    string `json:"location"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// Entity builds the plan stored under id
func (r ServerPlanRequest) Entity(id string) *entity.ServerPlan {
	return &entity.ServerPlan{
		ID:          id,
		Name:        r.Name,
		RAM:         r.RAM,
		CPU:         r.CPU,
		Disk:        r.Disk,
		Price:       r.Price,
		Location:    r.Location,
		Description: r.Description,
		IsActive:    r.IsActive == nil || *r.IsActive,
	}
}

// VoucherRequest creates a discount code
type VoucherRequest struct {
	Code          string     `json:"code" binding:"required,alphanum,max=32"`
	DiscountType  string     `json:"discountType" binding:"required,oneof=percent fixed"`
	DiscountValue int64      `json:"discountValue" binding:"gt=0"`
	MinPurchase   int64      `json:"minPurchase" binding:"min=0"`
	MaxUsage      int        `json:"maxUsage" binding:"gt=0"`
	ExpiresAt     *time.Time `json:"expiresAt"`
}

// VoucherResponse represents a voucher
type VoucherResponse struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discountType"`
	DiscountValue int64      `json:"discountValue"`
	MinPurchase   int64      `json:"minPurchase"`
	MaxUsage      int        `json:"maxUsage"`
	UsedCount     int        `json:"usedCount"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	IsActive      bool       `json:"isActive"`
}

// NewVoucherResponse maps a voucher entity
func NewVoucherResponse(v *entity.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:            v.ID,
		Code:          v.Code,
		DiscountType:  string(v.DiscountType),
		DiscountValue: v.DiscountValue,
		MinPurchase:   v.MinPurchase,
		MaxUsage:      v.MaxUsage,
		UsedCount:     v.UsedCount,
		ExpiresAt:     v.ExpiresAt,
		IsActive:      v.IsActive,
	}
}

// NotificationResponse represents an inbox entry
type NotificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewNotificationList maps inbox entries
func NewNotificationList(items []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Severity:  string(n.Severity),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
