package dto

import (
	"time"

	"github.com/amirhossein-jamali/marketplace-ledger/internal/domain/entity"
)

// PurchaseProductRequest buys a stocked product
type PurchaseProductRequest struct {
	Quantity    int    `json:"quantity" binding:"omitempty,min=1,max=100"`
	VoucherCode string `json:"voucherCode" binding:"omitempty,alphanum,max=32"`
}

// PurchaseServerRequest rents a server plan
type PurchaseServerRequest struct {
	PlanID string `json:"planId" binding:"required"`
	Term   string `json:"term" binding:"omitempty,oneof=1month 3month 6month 1year"`
}

// DigitalTopupRequest buys a wholesaler SKU for a target account
type DigitalTopupRequest struct {
	SKU    string `json:"sku" binding:"required,max=64"`
	Target string `json:"target" binding:"required,min=4,max=32"`
}

// OTPOrderRequest rents a virtual number
type OTPOrderRequest struct {
	ServiceID  string `json:"serviceId" binding:"required"`
	NumberID   string `json:"numberId" binding:"required"`
	ProviderID string `json:"providerId" binding:"required"`
	OperatorID string `json:"operatorId"`
}

// OrderStatusRequest is an admin status override
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing completed cancelled expired"`
}

// OrderResponse represents an order
type OrderResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"userId"`
	Username      string                `json:"username"`
	ProductType   string                `json:"productType"`
	ProductID     string                `json:"productId"`
	ProductName   string                `json:"productName"`
	Quantity      int                   `json:"quantity"`
	TotalPrice    int64                 `json:"totalPrice"`
	Status        string                `json:"status"`
	RefID         string                `json:"refId,omitempty"`
	TransactionID string                `json:"transactionId,omitempty"`
	VoucherCode   string                `json:"voucherCode,omitempty"`
	Target        string                `json:"target,omitempty"`
	Note          string                `json:"note,omitempty"`
	Reason        string                `json:"reason,omitempty"`
	ServerDetails *entity.ServerDetails `json:"serverDetails,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	CompletedAt   *time.Time            `json:"completedAt,omitempty"`
}

// NewOrderResponse maps an order entity
func NewOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Username:      o.Username,
		ProductType:   string(o.ProductType),
		ProductID:     o.ProductID,
		ProductName:   o.ProductName,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		RefID:         o.RefID,
		TransactionID: o.TransactionID,
		VoucherCode:   o.VoucherCode,
		Target:        o.Target,
		Note:          o.Note,
		Reason:        o.Reason,
		ServerDetails: o.ServerDetails,
		CreatedAt:     o.CreatedAt,
		CompletedAt:   o.CompletedAt,
	}
}

// NewOrderList maps a page of orders
func NewOrderList(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderResponse(o))
	}
	return out
}
