package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/pkg/db/models"
)

// CreateOrderRequest is the JSON body for POST /api/v1/orders.
type CreateOrderRequest struct {
	Code           string `json:"code" validate:"required,min=1,max=64"`
	ManufacturerID string `json:"manufacturer_id" validate:"required,uuid"`
	ProductID      string `json:"product_id" validate:"required,uuid"`
	TotalUnits     int    `json:"total_units" validate:"required,gt=0"`
}

// CreateOrderInput is the typed service input after request validation.
type CreateOrderInput struct {
	TenantID       uuid.UUID
	Code           string
	ManufacturerID uuid.UUID
	ProductID      uuid.UUID
	TotalUnits     int
}

// ManufacturerSummary is the embedded manufacturer view on an order response.
type ManufacturerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ProductSummary is the embedded product view on an order response.
type ProductSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SKU        *string   `json:"sku,omitempty"`
	PriceCents int       `json:"price_cents"`
}

// OrderResponse is the data payload for order reads and creates.
type OrderResponse struct {
	ID           uuid.UUID            `json:"id"`
	Code         string               `json:"code"`
	TotalUnits   int                  `json:"total_units"`
	Status       string               `json:"status"`
	POSentAt     *time.Time           `json:"po_sent_at,omitempty"`
	Manufacturer *ManufacturerSummary `json:"manufacturer,omitempty"`
	Product      *ProductSummary      `json:"product,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

// RenderPOResponse is the data payload after a purchase order is rendered
// and uploaded without changing the order status.
type RenderPOResponse struct {
	OrderID    uuid.UUID `json:"order_id"`
	POLocation string    `json:"po_location"`
}

// SendPOResponse is the data payload after a purchase order is rendered,
// uploaded, and marked sent.
type SendPOResponse struct {
	OrderID    uuid.UUID `json:"order_id"`
	Status     string    `json:"status"`
	POSentAt   time.Time `json:"po_sent_at"`
	POLocation string    `json:"po_location"`
}

func toOrderResponse(order *models.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:         order.ID,
		Code:       order.Code,
		TotalUnits: order.TotalUnits,
		Status:     order.Status.String(),
		POSentAt:   order.POSentAt,
		CreatedAt:  order.CreatedAt,
	}
	if order.Manufacturer != nil {
		resp.Manufacturer = &ManufacturerSummary{
			ID:    order.Manufacturer.ID,
			Name:  order.Manufacturer.Name,
			Email: order.Manufacturer.Email,
		}
	}
	if order.Product != nil {
		resp.Product = &ProductSummary{
			ID:         order.Product.ID,
			Name:       order.Product.Name,
			SKU:        order.Product.SKU,
			PriceCents: order.Product.PriceCents,
		}
	}
	return resp
}
