package entity

import (
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/error"
	tport "github.com/amirhossein-jamali/marketplace-ledger/internal/domain/port/core"
)

// ProductType is what an order bought
type ProductType string

const (
	ProductTypeProduct ProductType = "product"
	ProductTypeOTP     ProductType = "OTP"
	ProductTypeServer  ProductType = "server"
	ProductTypeDigital ProductType = "Digital"
)

// OrderStatus is the order lifecycle state
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
	OrderExpired    OrderStatus = "expired"
)

// pending -> processing -> {completed | cancelled}; completed -> expired
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
	OrderCompleted:  {OrderExpired},
}

// ParseOrderStatus validates a status string from the outside world
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled, OrderExpired:
		return status, nil
	}
	return "", errs.ErrInvalidRequest
}

// CanTransition reports whether the state machine allows from -> to
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsFinal reports whether the order can no longer be fulfilled or refunded
func (s OrderStatus) IsFinal() bool {
	return s == OrderCompleted || s == OrderCancelled || s == OrderExpired
}

// Order is a purchase of a product, OTP number, server or digital top-up
type Order struct {
	ID            string
	UserID        string
	Username      string
	ProductType   ProductType
	ProductID     string
	ProductName   string
	Quantity      int
	TotalPrice    int64
	Status        OrderStatus
	RefID         string // provider correlation key (DIGI..., OTP order id)
	TransactionID string // debit transaction, if any
	VoucherCode   string
	Target        string // customer number or phone, depending on product type
	Note          string // provider message, serial number or OTP code
	Reason        string // why the order was cancelled
	ServerDetails *ServerDetails
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// NewOrder creates a pending order
func NewOrder(userID, username string, productType ProductType, productID, productName string, quantity int, totalPrice int64, timeProvider tport.TimeProvider) *Order {
	if quantity <= 0 {
		quantity = 1
	}
	return &Order{
		ID:          NewID(),
		UserID:      userID,
		Username:    username,
		ProductType: productType,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		TotalPrice:  totalPrice,
		Status:      OrderPending,
		CreatedAt:   timeProvider.Now(),
	}
}

// TransitionTo moves the order through the state machine
func (o *Order) TransitionTo(status OrderStatus, timeProvider tport.TimeProvider) error {
	if !o.Status.CanTransition(status) {
		return errs.NewTransitionError("order", o.ID, string(o.Status), string(status))
	}
	o.Status = status
	if status == OrderCompleted {
		now := timeProvider.Now()
		o.CompletedAt = &now
	}
	return nil
}

// Cancel moves the order to cancelled and records why
func (o *Order) Cancel(reason string, timeProvider tport.TimeProvider) error {
	if err := o.TransitionTo(OrderCancelled, timeProvider); err != nil {
		return err
	}
	o.Reason = reason
	return nil
}

// Complete drives a pending or processing order to completed
func (o *Order) Complete(timeProvider tport.TimeProvider) error {
	if o.Status == OrderPending {
		if err := o.TransitionTo(OrderProcessing, timeProvider); err != nil {
			return err
		}
	}
	return o.TransitionTo(OrderCompleted, timeProvider)
}
