package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "CASH"
	PaymentQRIS    PaymentMethod = "QRIS"
	PaymentEWallet PaymentMethod = "E_WALLET"
	PaymentDebit   PaymentMethod = "DEBIT"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentQRIS, PaymentEWallet, PaymentDebit:
		return true
	}
	return false
}

// Sale is an immutable point-of-sale transaction. Rows are append-only:
// nothing in the system updates a sale after it is committed.
type Sale struct {
	BaseModel
	Date          time.Time     `gorm:"not null;index" json:"date"`
	Items         []SaleItem    `gorm:"foreignKey:SaleID" json:"items" validate:"required,min=1,dive"`
	Subtotal      int64         `gorm:"not null" json:"subtotal"`
	DiscountTotal int64         `gorm:"not null" json:"discount_total"`
	Tax           int64         `gorm:"not null" json:"tax"`
	Total         int64         `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method" validate:"required"`
	CashierID     string        `gorm:"type:varchar(255)" json:"cashier_id"`

	// Self-service orders only
	CustomerName string `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	TableNumber  string `gorm:"type:varchar(20)" json:"table_number,omitempty"`
}

// SaleItem snapshots name and unit price at sale time; it is never
// live-joined back to the product row.
type SaleItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Discount  int64     `gorm:"default:0" json:"discount"` // per-line, reserved for future use
}
