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

type PurchaseItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	BuyPrice  int64     `json:"buy_price"`
	Quantity  int       `json:"quantity"`
}

type PurchaseRequest struct {
	SupplierName string                `json:"supplier_name"`
	Items        []PurchaseItemRequest `json:"items"`
	Status       model.PurchaseStatus  `json:"status"`
}

type PurchasingService interface {
	RecordPurchase(req *PurchaseRequest, actor Actor) (*model.PurchaseOrder, error)
	ReceivePurchase(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error)
	CancelPurchase(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error)
	GetAllPurchases() ([]model.PurchaseOrder, error)
	GetPurchaseByID(id uuid.UUID) (*model.PurchaseOrder, error)
}

type purchasingService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	recon        *Reconciler
	wsHub        *ws.Hub
}

func NewPurchasingService(purchaseRepo repository.PurchaseRepository, productRepo repository.ProductRepository, recon *Reconciler, hub *ws.Hub) PurchasingService {
	return &purchasingService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		recon:        recon,
		wsHub:        hub,
	}
}

// RecordPurchase appends a purchase order. An order created already
// RECEIVED applies its stock increments and cost-basis overwrites in the
// same transaction; a PENDING order has no stock effect until received.
func (s *purchasingService) RecordPurchase(req *PurchaseRequest, actor Actor) (*model.PurchaseOrder, error) {
	if !actor.Role.Can().CanRecordPurchase {
		return nil, apperr.Forbidden("role %s cannot record purchases", actor.Role)
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	order := &model.PurchaseOrder{
		Date:         time.Now(),
		SupplierName: req.SupplierName,
		Status:       req.Status,
	}
	order.ID = uuid.New()
	order.CreatedBy = actor.ID
	order.UpdatedBy = actor.ID

	var totalAmount int64
	for _, item := range req.Items {
		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.UnknownProduct(item.ProductID)
			}
			return nil, err
		}
		order.Items = append(order.Items, model.PurchaseItem{
			ProductID: product.ID,
			Name:      product.Name,
			BuyPrice:  item.BuyPrice,
			Quantity:  item.Quantity,
		})
		totalAmount += item.BuyPrice * int64(item.Quantity)
	}
	order.TotalAmount = totalAmount

	if order.Status == model.PurchaseReceived {
		now := time.Now()
		order.ReceivedDate = &now
	}

	err := s.recon.Execute(func(tx *gorm.DB) error {
		if err := s.purchaseRepo.Create(tx, order); err != nil {
			return err
		}
		if order.Status == model.PurchaseReceived {
			return s.applyReceipt(tx, order, actor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("purchase_recorded", order, actor)
	return order, nil
}

// ReceivePurchase is the first-class PENDING -> RECEIVED transition. The
// status guard and the stock effects run in one transaction, so receiving
// happens exactly once: a second attempt sees RECEIVED and fails.
func (s *purchasingService) ReceivePurchase(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error) {
	if !actor.Role.Can().CanRecordPurchase {
		return nil, apperr.Forbidden("role %s cannot receive purchases", actor.Role)
	}

	var received *model.PurchaseOrder
	err := s.recon.Execute(func(tx *gorm.DB) error {
		order, err := s.purchaseRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("purchase order", id)
			}
			return err
		}

		if order.Status != model.PurchasePending {
			return apperr.InvalidTransition(string(order.Status), string(model.PurchaseReceived))
		}

		now := time.Now()
		order.Status = model.PurchaseReceived
		order.ReceivedDate = &now
		order.UpdatedBy = actor.ID
		if err := s.purchaseRepo.UpdateStatus(tx, order); err != nil {
			return err
		}

		if err := s.applyReceipt(tx, order, actor); err != nil {
			return err
		}

		received = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("purchase_received", received, actor)
	return received, nil
}

// CancelPurchase moves a PENDING order to CANCELLED. No stock effect.
func (s *purchasingService) CancelPurchase(id uuid.UUID, actor Actor) (*model.PurchaseOrder, error) {
	if !actor.Role.Can().CanRecordPurchase {
		return nil, apperr.Forbidden("role %s cannot cancel purchases", actor.Role)
	}

	var cancelled *model.PurchaseOrder
	err := s.recon.Execute(func(tx *gorm.DB) error {
		order, err := s.purchaseRepo.FindByIDForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("purchase order", id)
			}
			return err
		}

		if order.Status != model.PurchasePending {
			return apperr.InvalidTransition(string(order.Status), string(model.PurchaseCancelled))
		}

		order.Status = model.PurchaseCancelled
		order.UpdatedBy = actor.ID
		if err := s.purchaseRepo.UpdateStatus(tx, order); err != nil {
			return err
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// applyReceipt runs the stock increment and cost-basis overwrite for every
// line of a received order, in item order, inside the caller's transaction.
func (s *purchasingService) applyReceipt(tx *gorm.DB, order *model.PurchaseOrder, actor Actor) error {
	for _, item := range order.Items {
		if _, err := s.recon.ApplyDelta(tx, item.ProductID, item.Quantity,
			model.StockLogPurchase, order.ID.String(), "", actor); err != nil {
			return err
		}
		if err := s.recon.UpdateCostBasis(tx, item.ProductID, item.BuyPrice); err != nil {
			return err
		}
	}
	return nil
}

func (s *purchasingService) validate(req *PurchaseRequest) error {
	if req.SupplierName == "" {
		return apperr.Validation("supplier name is required")
	}
	if len(req.Items) == 0 {
		return apperr.Validation("purchase order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return apperr.Validation("purchase item is missing a product id")
		}
		if item.Quantity <= 0 {
			return apperr.Validation("purchase item quantity must be positive")
		}
		if item.BuyPrice < 0 {
			return apperr.Validation("purchase item buy price cannot be negative")
		}
	}
	if req.Status != model.PurchasePending && req.Status != model.PurchaseReceived {
		return apperr.Validation("new purchase orders must be PENDING or RECEIVED")
	}
	return nil
}

func (s *purchasingService) broadcast(action string, order *model.PurchaseOrder, actor Actor) {
	if s.wsHub == nil || order == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"purchase": map[string]interface{}{
				"id":       order.ID,
				"supplier": order.SupplierName,
				"status":   order.Status,
				"total":    order.TotalAmount,
			},
			"user":    map[string]interface{}{"id": actor.ID, "name": actor.Name},
			"message": fmt.Sprintf("%s %s order from %s", actor.Name, action, order.SupplierName),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

func (s *purchasingService) GetAllPurchases() ([]model.PurchaseOrder, error) {
	return s.purchaseRepo.FindAll()
}

func (s *purchasingService) GetPurchaseByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	order, err := s.purchaseRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("purchase order", id)
	}
	return order, nil
}
