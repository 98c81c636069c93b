package model

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "PENDING"
	PurchaseReceived  PurchaseStatus = "RECEIVED"
	PurchaseCancelled PurchaseStatus = "CANCELLED"
)

func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchasePending, PurchaseReceived, PurchaseCancelled:
		return true
	}
	return false
}

// PurchaseOrder records an order to a supplier. Stock and cost-basis
// effects apply exactly once, at the moment the order becomes RECEIVED,
// either at creation or through a later receive transition. PENDING and
// CANCELLED orders never touch stock.
type PurchaseOrder struct {
	BaseModel
	Date         time.Time      `gorm:"not null;index" json:"date"`
	SupplierName string         `gorm:"type:varchar(255);not null" json:"supplier_name" validate:"required"`
	Items        []PurchaseItem `gorm:"foreignKey:PurchaseOrderID" json:"items" validate:"required,min=1,dive"`
	TotalAmount  int64          `gorm:"not null" json:"total_amount"` // derived: sum of buy_price * quantity
	Status       PurchaseStatus `gorm:"type:varchar(20);not null" json:"status"`
	ReceivedDate *time.Time     `json:"received_date,omitempty"`
}

type PurchaseItem struct {
	ID              uint      `gorm:"primaryKey" json:"-"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	BuyPrice        int64     `gorm:"not null" json:"buy_price" validate:"gte=0"`
	Quantity        int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
}
