package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/repository"
	"github.com/mazenibra89-oss/Omni-POS/internal/ws"
	"github.com/mazenibra89-oss/Omni-POS/pkg/validator"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CatalogService interface {
	ListProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	AdjustStock(id uuid.UUID, newStock int, note string, actor Actor) (*model.Product, error)
	LowStockProducts() ([]model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	recon       *Reconciler
	wsHub       *ws.Hub
}

func NewCatalogService(productRepo repository.ProductRepository, recon *Reconciler, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		recon:       recon,
		wsHub:       hub,
	}
}

func (s *catalogService) ListProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, err
	}
	return product, nil
}

func (s *catalogService) CreateProduct(req *model.Product, actor Actor) error {
	if !actor.Role.Can().CanManageCatalog {
		return apperr.Forbidden("role %s cannot manage the catalog", actor.Role)
	}
	if err := validator.Check(req); err != nil {
		return apperr.Validation("validation failed: %v", err)
	}
	if req.Stock < 0 || req.MinStock < 0 {
		return apperr.Validation("stock levels cannot be negative")
	}

	// Products submitted without a SKU get one derived from the name.
	if req.SKU == "" {
		req.SKU = strings.ToUpper(slug.Make(req.Name))
	}

	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return apperr.Conflict("SKU %s already exists", req.SKU)
	}

	req.CreatedBy = actor.ID
	req.UpdatedBy = actor.ID
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.broadcast("product_created", req, actor)
	return nil
}

// UpdateProduct edits catalog fields. Stock is deliberately excluded:
// stock moves only through sales, received purchases, approved opname
// sessions, or an explicit AdjustStock.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	if !actor.Role.Can().CanManageCatalog {
		return nil, apperr.Forbidden("role %s cannot manage the catalog", actor.Role)
	}
	if err := validator.Check(req); err != nil {
		return nil, apperr.Validation("validation failed: %v", err)
	}

	existing, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if req.SKU != "" && req.SKU != existing.SKU {
		dup, _ := s.productRepo.FindBySKU(req.SKU)
		if dup != nil && dup.ID != uuid.Nil {
			return nil, apperr.Conflict("SKU %s already exists", req.SKU)
		}
		existing.SKU = req.SKU
	}
	existing.Name = req.Name
	existing.Category = req.Category
	existing.Unit = req.Unit
	existing.BuyPrice = req.BuyPrice
	existing.SellPrice = req.SellPrice
	existing.MinStock = req.MinStock
	existing.UpdatedBy = actor.ID

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.broadcast("product_updated", existing, actor)
	return existing, nil
}

// AdjustStock sets stock to an absolute value outside the three main
// flows, recorded as an ADJUSTMENT so the audit trail explains the jump.
func (s *catalogService) AdjustStock(id uuid.UUID, newStock int, note string, actor Actor) (*model.Product, error) {
	if !actor.Role.Can().CanManageCatalog {
		return nil, apperr.Forbidden("role %s cannot manage the catalog", actor.Role)
	}
	if newStock < 0 {
		return nil, apperr.Validation("stock cannot be set below zero")
	}

	var updated *model.Product
	err := s.recon.Execute(func(tx *gorm.DB) error {
		product, err := s.recon.lockProduct(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product", id)
			}
			return err
		}

		delta := newStock - product.Stock
		if err := s.recon.updateStock(tx, product, newStock, actor); err != nil {
			return err
		}
		if err := s.recon.appendLog(tx, id, delta, model.StockLogAdjustment, "", note, actor); err != nil {
			return err
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast("stock_adjusted", updated, actor)
	return updated, nil
}

func (s *catalogService) LowStockProducts() ([]model.Product, error) {
	return s.productRepo.FindLowStock()
}

func (s *catalogService) broadcast(action string, product *model.Product, actor Actor) {
	if s.wsHub == nil || product == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"product": map[string]interface{}{
				"id":    product.ID,
				"sku":   product.SKU,
				"name":  product.Name,
				"stock": product.Stock,
			},
			"user":    map[string]interface{}{"id": actor.ID, "name": actor.Name},
			"message": fmt.Sprintf("%s: %s '%s'", actor.Name, action, product.Name),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
