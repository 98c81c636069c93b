package repository

import (
	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpnameRepository interface {
	Create(session *model.OpnameSession) error
	FindAll() ([]model.OpnameSession, error)
	FindByID(id uuid.UUID) (*model.OpnameSession, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.OpnameSession, error)
	UpdateStatus(tx *gorm.DB, session *model.OpnameSession) error
	UpdateDetail(detail *model.OpnameDetail) error
}

type opnameRepo struct {
	db *gorm.DB
}

func NewOpnameRepo(db *gorm.DB) OpnameRepository {
	return &opnameRepo{db}
}

func (r *opnameRepo) Create(session *model.OpnameSession) error {
	return r.db.Create(session).Error
}

func (r *opnameRepo) FindAll() ([]model.OpnameSession, error) {
	var sessions []model.OpnameSession
	err := r.db.Preload("Details").Order("date DESC").Find(&sessions).Error
	return sessions, err
}

func (r *opnameRepo) FindByID(id uuid.UUID) (*model.OpnameSession, error) {
	var session model.OpnameSession
	err := r.db.Preload("Details").First(&session, "id = ?", id).Error
	return &session, err
}

// FindByIDForUpdate loads the session inside the caller's transaction so
// the approval guard and the stock sync act on one consistent row.
func (r *opnameRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.OpnameSession, error) {
	var session model.OpnameSession
	err := tx.Set("gorm:query_option", "FOR UPDATE").Preload("Details").First(&session, "id = ?", id).Error
	return &session, err
}

func (r *opnameRepo) UpdateStatus(tx *gorm.DB, session *model.OpnameSession) error {
	return tx.Model(&model.OpnameSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"status":      session.Status,
			"approved_by": session.ApprovedBy,
			"updated_by":  session.UpdatedBy,
		}).Error
}

func (r *opnameRepo) UpdateDetail(detail *model.OpnameDetail) error {
	return r.db.Model(&model.OpnameDetail{}).
		Where("id = ?", detail.ID).
		Updates(map[string]interface{}{
			"physical_stock": detail.PhysicalStock,
			"difference":     detail.Difference,
		}).Error
}
