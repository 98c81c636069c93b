package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/repository"
	"github.com/mazenibra89-oss/Omni-POS/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpnameService interface {
	Template() ([]model.OpnameDetail, error)
	SaveSession(counts map[uuid.UUID]int, notes string, actor Actor) (*model.OpnameSession, error)
	EditDetail(sessionID, productID uuid.UUID, physicalStock int, actor Actor) (*model.OpnameSession, error)
	Propose(sessionID uuid.UUID, actor Actor) (*model.OpnameSession, error)
	Approve(sessionID uuid.UUID, actor Actor) (*model.OpnameSession, error)
	Reject(sessionID uuid.UUID, actor Actor) (*model.OpnameSession, error)
	GetAllSessions() ([]model.OpnameSession, error)
	GetSessionByID(id uuid.UUID) (*model.OpnameSession, error)
}

type opnameService struct {
	opnameRepo  repository.OpnameRepository
	productRepo repository.ProductRepository
	recon       *Reconciler
	wsHub       *ws.Hub
}

func NewOpnameService(opnameRepo repository.OpnameRepository, productRepo repository.ProductRepository, recon *Reconciler, hub *ws.Hub) OpnameService {
	return &opnameService{
		opnameRepo:  opnameRepo,
		productRepo: productRepo,
		recon:       recon,
		wsHub:       hub,
	}
}

// Template returns an unsaved draft count sheet: every product with its
// current stock, physical count seeded to match. Nothing is persisted.
func (s *opnameService) Template() ([]model.OpnameDetail, error) {
	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}

	details := make([]model.OpnameDetail, 0, len(products))
	for _, p := range products {
		details = append(details, model.OpnameDetail{
			ProductID:     p.ID,
			ProductName:   p.Name,
			SystemStock:   p.Stock,
			PhysicalStock: p.Stock,
			Difference:    0,
		})
	}
	return details, nil
}

// SaveSession persists a DRAFT session covering the full catalog. System
// stock is snapshotted server-side at save time; submitted counts overlay
// the snapshot, everything uncounted defaults to matching. The snapshot
// is what keeps variance deterministic while sales keep landing.
func (s *opnameService) SaveSession(counts map[uuid.UUID]int, notes string, actor Actor) (*model.OpnameSession, error) {
	for id, counted := range counts {
		if counted < 0 {
			return nil, apperr.Validation("physical stock for product %s cannot be negative", id)
		}
	}

	products, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperr.Validation("cannot start an opname session on an empty catalog")
	}

	known := make(map[uuid.UUID]bool, len(products))
	session := &model.OpnameSession{
		Date:   time.Now(),
		Status: model.OpnameDraft,
		Notes:  notes,
	}
	session.CreatedBy = actor.ID
	session.UpdatedBy = actor.ID

	for _, p := range products {
		known[p.ID] = true
		physical := p.Stock
		if counted, ok := counts[p.ID]; ok {
			physical = counted
		}
		session.Details = append(session.Details, model.OpnameDetail{
			ProductID:     p.ID,
			ProductName:   p.Name,
			SystemStock:   p.Stock,
			PhysicalStock: physical,
			Difference:    physical - p.Stock,
		})
	}

	for id := range counts {
		if !known[id] {
			return nil, apperr.UnknownProduct(id)
		}
	}

	if err := s.opnameRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// EditDetail updates one counted line of a saved session. Only legal while
// the session is still DRAFT; the difference is recomputed against the
// stored system-stock snapshot, never against live stock.
func (s *opnameService) EditDetail(sessionID, productID uuid.UUID, physicalStock int, actor Actor) (*model.OpnameSession, error) {
	if physicalStock < 0 {
		return nil, apperr.Validation("physical stock cannot be negative")
	}

	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.OpnameDraft {
		return nil, apperr.InvalidState("session %s is %s, counts can only be edited while DRAFT", sessionID, session.Status)
	}

	var detail *model.OpnameDetail
	for i := range session.Details {
		if session.Details[i].ProductID == productID {
			detail = &session.Details[i]
			break
		}
	}
	if detail == nil {
		return nil, apperr.NotFound("opname detail for product", productID)
	}

	detail.PhysicalStock = physicalStock
	detail.Difference = physicalStock - detail.SystemStock
	if err := s.opnameRepo.UpdateDetail(detail); err != nil {
		return nil, err
	}
	return session, nil
}

// Propose moves DRAFT -> PROPOSED. The proposed gate is mandatory: approval
// is never reachable straight from DRAFT. No role restriction here.
func (s *opnameService) Propose(sessionID uuid.UUID, actor Actor) (*model.OpnameSession, error) {
	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.OpnameDraft {
		return nil, apperr.InvalidTransition(string(session.Status), string(model.OpnameProposed))
	}

	session.Status = model.OpnameProposed
	session.UpdatedBy = actor.ID
	if err := s.opnameRepo.UpdateStatus(s.recon.db, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Approve moves PROPOSED -> APPROVED and syncs every variance onto live
// stock as an absolute set, exactly once. The status guard runs inside the
// same transaction as the stock writes, so a re-approval can never slip in
// and re-apply counts against a moved baseline.
func (s *opnameService) Approve(sessionID uuid.UUID, actor Actor) (*model.OpnameSession, error) {
	if !actor.Role.Can().CanApproveOpname {
		return nil, apperr.Forbidden("role %s cannot approve opname sessions", actor.Role)
	}

	var approved *model.OpnameSession
	err := s.recon.Execute(func(tx *gorm.DB) error {
		session, err := s.opnameRepo.FindByIDForUpdate(tx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("opname session", sessionID)
			}
			return err
		}

		if session.Status != model.OpnameProposed {
			return apperr.InvalidTransition(string(session.Status), string(model.OpnameApproved))
		}

		for _, detail := range session.Details {
			if detail.Matches() {
				continue
			}
			note := fmt.Sprintf("opname sync: counted %d against system %d", detail.PhysicalStock, detail.SystemStock)
			if _, err := s.recon.SetStock(tx, detail.ProductID, detail.PhysicalStock,
				session.ID.String(), note, actor); err != nil {
				return err
			}
		}

		session.Status = model.OpnameApproved
		session.ApprovedBy = actor.ID
		session.UpdatedBy = actor.ID
		if err := s.opnameRepo.UpdateStatus(tx, session); err != nil {
			return err
		}

		approved = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(approved, actor)
	return approved, nil
}

// Reject moves PROPOSED -> REJECTED and discards the counts. No stock
// effect. Gated like Approve: deciding a proposal either way is the same
// authority.
func (s *opnameService) Reject(sessionID uuid.UUID, actor Actor) (*model.OpnameSession, error) {
	if !actor.Role.Can().CanApproveOpname {
		return nil, apperr.Forbidden("role %s cannot reject opname sessions", actor.Role)
	}

	session, err := s.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.OpnameProposed {
		return nil, apperr.InvalidTransition(string(session.Status), string(model.OpnameRejected))
	}

	session.Status = model.OpnameRejected
	session.UpdatedBy = actor.ID
	if err := s.opnameRepo.UpdateStatus(s.recon.db, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *opnameService) loadSession(id uuid.UUID) (*model.OpnameSession, error) {
	session, err := s.opnameRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("opname session", id)
		}
		return nil, err
	}
	return session, nil
}

func (s *opnameService) broadcast(session *model.OpnameSession, actor Actor) {
	if s.wsHub == nil || session == nil {
		return
	}
	go func() {
		adjusted := 0
		for _, d := range session.Details {
			if !d.Matches() {
				adjusted++
			}
		}
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "opname_approved",
			"opname": map[string]interface{}{
				"id":             session.ID,
				"adjusted_lines": adjusted,
			},
			"user":    map[string]interface{}{"id": actor.ID, "name": actor.Name},
			"message": fmt.Sprintf("%s approved stock opname (%d adjustment(s))", actor.Name, adjusted),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

func (s *opnameService) GetAllSessions() ([]model.OpnameSession, error) {
	return s.opnameRepo.FindAll()
}

func (s *opnameService) GetSessionByID(id uuid.UUID) (*model.OpnameSession, error) {
	return s.loadSession(id)
}
