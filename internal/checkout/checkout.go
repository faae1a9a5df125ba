// Package checkout assembles order payloads from cart state and hands them
// to the hosted order-creation collaborator.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/stpauli98/CandleShop-sub000/internal/cart"
	"github.com/stpauli98/CandleShop-sub000/internal/domain"
	"github.com/stpauli98/CandleShop-sub000/internal/shipping"
)

var (
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
)

// ShippingInfo is the delivery address collected at checkout.
type ShippingInfo struct {
	FullName   string `json:"fullName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Order is the plain payload handed to the order-creation collaborator.
// Total includes the shipping cost.
type Order struct {
	OrderNumber   string            `json:"orderNumber"`
	Items         []domain.CartLine `json:"items"`
	Total         float64           `json:"total"`
	ShippingCost  float64           `json:"shippingCost"`
	PaymentMethod string            `json:"paymentMethod"`
	ShippingInfo  ShippingInfo      `json:"shippingInfo"`
	CustomerEmail string            `json:"customerEmail"`
}

// OrderCreator is the hosted backend's order endpoint. It returns an opaque
// order identifier on success.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *Order) (string, error)
}

// SubmitRequest carries the customer-entered checkout fields.
type SubmitRequest struct {
	PaymentMethod string
	ShippingInfo  ShippingInfo
	CustomerEmail string
}

// Service submits orders built from the current cart state. The cart is
// cleared only after the collaborator confirms the order.
type Service struct {
	creator OrderCreator
	cart    *cart.Engine
	log     *slog.Logger
}

// NewService wires a checkout service over the given cart engine and
// collaborator.
func NewService(creator OrderCreator, engine *cart.Engine, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{creator: creator, cart: engine, log: log}
}

// Submit reads the final cart state, applies the shipping policy, and hands
// the order to the collaborator. Returns the collaborator's order identifier.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	lines := s.cart.Lines()
	if len(lines) == 0 {
		return "", ErrEmptyCart
	}

	subtotal := cart.Total(lines)
	cost := shipping.CalculateShippingCost(subtotal)

	order := &Order{
		OrderNumber:   NewOrderNumber(),
		Items:         lines,
		Total:         subtotal + cost,
		ShippingCost:  cost,
		PaymentMethod: req.PaymentMethod,
		ShippingInfo:  req.ShippingInfo,
		CustomerEmail: req.CustomerEmail,
	}

	id, err := s.creator.CreateOrder(ctx, order)
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	s.cart.ClearCart()
	s.log.Info("order submitted", "order_number", order.OrderNumber, "order_id", id, "total", order.Total)
	return id, nil
}

// NewOrderNumber generates a customer-facing order reference.
func NewOrderNumber() string {
	short := strings.ToUpper(uuid.New().String()[:8])
	return "ORD-" + short
}
