package model

import (
	"time"

	"github.com/google/uuid"
)

// OpnameStatus is the state machine for a physical count session:
// DRAFT -> PROPOSED -> APPROVED | REJECTED. APPROVED and REJECTED are
// terminal. PROPOSED is a mandatory gate: a DRAFT can never be approved
// directly.
type OpnameStatus string

const (
	OpnameDraft    OpnameStatus = "DRAFT"
	OpnameProposed OpnameStatus = "PROPOSED"
	OpnameApproved OpnameStatus = "APPROVED"
	OpnameRejected OpnameStatus = "REJECTED"
)

// OpnameSession is one physical stock count covering the whole catalog.
// SystemStock in its details is a snapshot taken when the session is
// saved, never a live reference, so variance stays deterministic even if
// sales or purchases land while the count is underway. Stock is mutated
// by a session at most once, at the single APPROVED transition.
type OpnameSession struct {
	BaseModel
	Date       time.Time      `gorm:"not null;index" json:"date"`
	Status     OpnameStatus   `gorm:"type:varchar(20);not null" json:"status"`
	ApprovedBy string         `gorm:"type:varchar(255)" json:"approved_by,omitempty"`
	Notes      string         `gorm:"type:text" json:"notes"`
	Details    []OpnameDetail `gorm:"foreignKey:SessionID" json:"details"`
}

type OpnameDetail struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	SessionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"product_name"`
	SystemStock   int       `gorm:"not null" json:"system_stock"`
	PhysicalStock int       `gorm:"not null" json:"physical_stock"`
	Difference    int       `gorm:"not null" json:"difference"` // physical - system
}

// Matches reports whether the counted stock agrees with the system stock.
func (d *OpnameDetail) Matches() bool {
	return d.Difference == 0
}
