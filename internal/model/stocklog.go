package model

import "github.com/google/uuid"

type StockLogType string

const (
	StockLogSale       StockLogType = "SALE"
	StockLogPurchase   StockLogType = "PURCHASE"
	StockLogOpname     StockLogType = "OPNAME"
	StockLogAdjustment StockLogType = "ADJUSTMENT"
)

// StockLog is the audit trail of every stock mutation. Qty is signed:
// negative for outbound movement, positive for inbound. ReferenceID links
// back to the sale, purchase order, or opname session that caused it.
type StockLog struct {
	BaseModel
	ProductID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Type        StockLogType `gorm:"type:varchar(20);not null;index" json:"type"`
	Qty         int          `gorm:"not null" json:"qty"`
	ReferenceID string       `gorm:"type:varchar(255)" json:"reference_id"`
	Note        string       `gorm:"type:text" json:"note"`
}
