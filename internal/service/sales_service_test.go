package service

import (
	"testing"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSaleTotals(t *testing.T) {
	taxRate := decimal.NewFromFloat(0.11)

	t.Run("no discount", func(t *testing.T) {
		totals := ComputeSaleTotals(100_000, 0, taxRate)
		assert.Equal(t, int64(100_000), totals.Subtotal)
		assert.Equal(t, int64(0), totals.DiscountAmount)
		assert.Equal(t, int64(11_000), totals.Tax)
		assert.Equal(t, int64(111_000), totals.Total)
	})

	t.Run("ten percent discount", func(t *testing.T) {
		totals := ComputeSaleTotals(100_000, 10, taxRate)
		assert.Equal(t, int64(10_000), totals.DiscountAmount)
		assert.Equal(t, int64(9_900), totals.Tax)
		assert.Equal(t, int64(99_900), totals.Total)
	})
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 10_000, 100, 20)

	sale, err := f.sales.RecordSale(&SaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 10}},
		PaymentMethod: model.PaymentCash,
	}, cashierActor)
	require.NoError(t, err)

	assert.Equal(t, 90, f.stockOf(t, p.ID))
	assert.Equal(t, int64(100_000), sale.Subtotal)
	assert.Equal(t, int64(11_000), sale.Tax)
	assert.Equal(t, int64(111_000), sale.Total)
	assert.Equal(t, cashierActor.ID, sale.CashierID)

	// Item carries snapshots, not live references
	require.Len(t, sale.Items, 1)
	assert.Equal(t, p.Name, sale.Items[0].Name)
	assert.Equal(t, p.SellPrice, sale.Items[0].Price)

	assert.Equal(t, int64(1), f.countLogs(t, model.StockLogSale))
}

func TestRecordSaleUnknownProductLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 10_000, 100, 20)

	_, err := f.sales.RecordSale(&SaleRequest{
		Items: []SaleItemRequest{
			{ProductID: p.ID, Quantity: 5},
			{ProductID: uuid.New(), Quantity: 1},
		},
		PaymentMethod: model.PaymentCash,
	}, cashierActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnknownProduct, apperr.KindOf(err))

	// The whole sale aborts: no partial stock change, no ledger append
	assert.Equal(t, 100, f.stockOf(t, p.ID))
	var saleCount int64
	require.NoError(t, f.db.Model(&model.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)
	assert.Zero(t, f.countLogs(t, model.StockLogSale))
}

func TestRecordSaleRejectsOversell(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 10_000, 3, 2)

	_, err := f.sales.RecordSale(&SaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 5}},
		PaymentMethod: model.PaymentCash,
	}, cashierActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNegativeStock, apperr.KindOf(err))
	assert.Equal(t, 3, f.stockOf(t, p.ID))
}

func TestRecordSaleOversellAbortsAllLines(t *testing.T) {
	f := newFixture(t)
	p1 := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 10_000, 100, 20)
	p2 := f.seedProduct(t, "PRD-002", "Le Minerale 600ml", 2200, 3_500, 2, 5)

	_, err := f.sales.RecordSale(&SaleRequest{
		Items: []SaleItemRequest{
			{ProductID: p1.ID, Quantity: 10},
			{ProductID: p2.ID, Quantity: 5},
		},
		PaymentMethod: model.PaymentQRIS,
	}, cashierActor)
	require.Error(t, err)

	// The first line's decrement must roll back with the failed second line
	assert.Equal(t, 100, f.stockOf(t, p1.ID))
	assert.Equal(t, 2, f.stockOf(t, p2.ID))
}

func TestRecordSaleValidation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 10_000, 100, 20)

	cases := []struct {
		name string
		req  SaleRequest
	}{
		{"empty items", SaleRequest{PaymentMethod: model.PaymentCash}},
		{"zero quantity", SaleRequest{
			Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 0}},
			PaymentMethod: model.PaymentCash,
		}},
		{"negative discount", SaleRequest{
			Items:           []SaleItemRequest{{ProductID: p.ID, Quantity: 1}},
			DiscountPercent: -5,
			PaymentMethod:   model.PaymentCash,
		}},
		{"unknown payment method", SaleRequest{
			Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 1}},
			PaymentMethod: "BARTER",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.sales.RecordSale(&tc.req, cashierActor)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
			assert.Equal(t, 100, f.stockOf(t, p.ID))
		})
	}
}

func TestRecordSaleForbiddenForCustomerRole(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 10_000, 100, 20)

	_, err := f.sales.RecordSale(&SaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: model.PaymentCash,
	}, Actor{ID: "X", Role: model.RoleCustomer})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestSelfServiceOrder(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 10_000, 100, 20)

	t.Run("cash rejected", func(t *testing.T) {
		_, err := f.sales.RecordSelfServiceOrder(&SaleRequest{
			Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 1}},
			PaymentMethod: model.PaymentCash,
		})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("discount forced to zero", func(t *testing.T) {
		sale, err := f.sales.RecordSelfServiceOrder(&SaleRequest{
			Items:           []SaleItemRequest{{ProductID: p.ID, Quantity: 2}},
			DiscountPercent: 50,
			PaymentMethod:   model.PaymentQRIS,
			CustomerName:    "Budi",
			TableNumber:     "12",
		})
		require.NoError(t, err)
		assert.Zero(t, sale.DiscountTotal)
		assert.Equal(t, "Budi", sale.CustomerName)
		assert.Equal(t, "12", sale.TableNumber)
		assert.Equal(t, SelfService.ID, sale.CashierID)
	})
}
