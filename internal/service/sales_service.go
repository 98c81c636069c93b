package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/repository"
	"github.com/mazenibra89-oss/Omni-POS/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type SaleRequest struct {
	Items           []SaleItemRequest   `json:"items"`
	DiscountPercent float64             `json:"discount_percent"`
	PaymentMethod   model.PaymentMethod `json:"payment_method"`
	CustomerName    string              `json:"customer_name,omitempty"`
	TableNumber     string              `json:"table_number,omitempty"`
}

// SaleTotals is the derived money breakdown of one sale.
type SaleTotals struct {
	Subtotal       int64
	DiscountAmount int64
	Tax            int64
	Total          int64
}

// ComputeSaleTotals applies the flat percent discount first, then the PPN
// rate on the discounted base. Amounts round to the nearest rupiah.
func ComputeSaleTotals(subtotal int64, discountPercent float64, taxRate decimal.Decimal) SaleTotals {
	sub := decimal.NewFromInt(subtotal)
	discount := sub.Mul(decimal.NewFromFloat(discountPercent)).Div(decimal.NewFromInt(100)).Round(0)
	tax := sub.Sub(discount).Mul(taxRate).Round(0)

	return SaleTotals{
		Subtotal:       subtotal,
		DiscountAmount: discount.IntPart(),
		Tax:            tax.IntPart(),
		Total:          subtotal - discount.IntPart() + tax.IntPart(),
	}
}

type SalesService interface {
	RecordSale(req *SaleRequest, actor Actor) (*model.Sale, error)
	RecordSelfServiceOrder(req *SaleRequest) (*model.Sale, error)
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
}

type salesService struct {
	saleRepo repository.SaleRepository
	recon    *Reconciler
	taxRate  decimal.Decimal
	wsHub    *ws.Hub
}

func NewSalesService(saleRepo repository.SaleRepository, recon *Reconciler, taxRate decimal.Decimal, hub *ws.Hub) SalesService {
	return &salesService{
		saleRepo: saleRepo,
		recon:    recon,
		taxRate:  taxRate,
		wsHub:    hub,
	}
}

// RecordSale validates and appends a point-of-sale transaction, decrementing
// stock per line item in one atomic operation. Any unknown product or
// insufficient stock aborts the whole sale: no partial append, no partial
// stock change.
func (s *salesService) RecordSale(req *SaleRequest, actor Actor) (*model.Sale, error) {
	if !actor.Role.Can().CanRecordSale {
		return nil, apperr.Forbidden("role %s cannot record sales", actor.Role)
	}
	return s.record(req, actor)
}

// RecordSelfServiceOrder handles customer self-checkout. No staff discount,
// cashless payment only; the order carries the customer name and table.
func (s *salesService) RecordSelfServiceOrder(req *SaleRequest) (*model.Sale, error) {
	if req.PaymentMethod != model.PaymentQRIS && req.PaymentMethod != model.PaymentEWallet {
		return nil, apperr.Validation("self service orders accept QRIS or E_WALLET only")
	}
	req.DiscountPercent = 0
	return s.record(req, SelfService)
}

func (s *salesService) record(req *SaleRequest, actor Actor) (*model.Sale, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	sale := &model.Sale{
		Date:          time.Now(),
		PaymentMethod: req.PaymentMethod,
		CashierID:     actor.ID,
		CustomerName:  req.CustomerName,
		TableNumber:   req.TableNumber,
	}
	// Pre-assigned so stock logs written in the same transaction can
	// reference the sale.
	sale.ID = uuid.New()
	sale.CreatedBy = actor.ID
	sale.UpdatedBy = actor.ID

	err := s.recon.Execute(func(tx *gorm.DB) error {
		var subtotal int64

		for _, item := range req.Items {
			product, err := s.recon.ApplyDelta(tx, item.ProductID, -item.Quantity,
				model.StockLogSale, sale.ID.String(), "", actor)
			if err != nil {
				return err
			}

			sale.Items = append(sale.Items, model.SaleItem{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.SellPrice,
				Quantity:  item.Quantity,
			})
			subtotal += product.SellPrice * int64(item.Quantity)
		}

		totals := ComputeSaleTotals(subtotal, req.DiscountPercent, s.taxRate)
		sale.Subtotal = totals.Subtotal
		sale.DiscountTotal = totals.DiscountAmount
		sale.Tax = totals.Tax
		sale.Total = totals.Total

		return s.saleRepo.Create(tx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(sale, actor)
	return sale, nil
}

func (s *salesService) validate(req *SaleRequest) error {
	if len(req.Items) == 0 {
		return apperr.Validation("sale must contain at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return apperr.Validation("sale item is missing a product id")
		}
		if item.Quantity <= 0 {
			return apperr.Validation("sale item quantity must be positive")
		}
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return apperr.Validation("discount percent must be between 0 and 100")
	}
	if !req.PaymentMethod.Valid() {
		return apperr.Validation("unknown payment method %q", req.PaymentMethod)
	}
	return nil
}

func (s *salesService) broadcast(sale *model.Sale, actor Actor) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_recorded",
			"sale": map[string]interface{}{
				"id":         sale.ID,
				"total":      sale.Total,
				"item_count": len(sale.Items),
			},
			"user":    map[string]interface{}{"id": actor.ID, "name": actor.Name},
			"message": fmt.Sprintf("%s recorded a sale of %d item(s)", actor.Name, len(sale.Items)),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

func (s *salesService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *salesService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("sale", id)
	}
	return sale, nil
}
