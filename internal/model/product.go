package model

type Product struct {
	BaseModel
	SKU       string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category  string `gorm:"type:varchar(100)" json:"category"`
	Unit      string `gorm:"type:varchar(20)" json:"unit"`
	BuyPrice  int64  `gorm:"default:0" json:"buy_price" validate:"gte=0"` // cost basis, overwritten on received purchases
	SellPrice int64  `gorm:"default:0" json:"sell_price" validate:"gte=0"`
	Stock     int    `gorm:"default:0" json:"stock"`
	MinStock  int    `gorm:"default:0" json:"min_stock"` // reorder threshold
}

// LowOnStock reports whether the product is at or below its reorder threshold.
func (p *Product) LowOnStock() bool {
	return p.Stock <= p.MinStock
}
