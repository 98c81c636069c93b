package service

import (
	"testing"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPurchasePendingHasNoStockEffect(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 3_500, 50, 20)

	order, err := f.purchasing.RecordPurchase(&PurchaseRequest{
		SupplierName: "PT Sumber Rejeki",
		Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_400, Quantity: 30}},
		Status:       model.PurchasePending,
	}, adminActor)
	require.NoError(t, err)

	assert.Equal(t, model.PurchasePending, order.Status)
	assert.Nil(t, order.ReceivedDate)
	assert.Equal(t, int64(72_000), order.TotalAmount)
	assert.Equal(t, 50, f.stockOf(t, p.ID))
	assert.Equal(t, int64(2_500), f.buyPriceOf(t, p.ID))
	assert.Zero(t, f.countLogs(t, model.StockLogPurchase))
}

func TestRecordPurchaseReceivedAppliesStockAndCostBasis(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 3_500, 50, 20)

	order, err := f.purchasing.RecordPurchase(&PurchaseRequest{
		SupplierName: "PT Sumber Rejeki",
		Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_700, Quantity: 30}},
		Status:       model.PurchaseReceived,
	}, adminActor)
	require.NoError(t, err)

	assert.Equal(t, model.PurchaseReceived, order.Status)
	require.NotNil(t, order.ReceivedDate)
	assert.Equal(t, 80, f.stockOf(t, p.ID))
	// Cost basis is overwritten with the received price, not averaged
	assert.Equal(t, int64(2_700), f.buyPriceOf(t, p.ID))
	assert.Equal(t, int64(1), f.countLogs(t, model.StockLogPurchase))
}

func TestReceivePurchaseAppliesExactlyOnce(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 3_500, 50, 20)

	order, err := f.purchasing.RecordPurchase(&PurchaseRequest{
		SupplierName: "PT Sumber Rejeki",
		Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_600, Quantity: 10}},
		Status:       model.PurchasePending,
	}, adminActor)
	require.NoError(t, err)

	received, err := f.purchasing.ReceivePurchase(order.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseReceived, received.Status)
	assert.Equal(t, 60, f.stockOf(t, p.ID))
	assert.Equal(t, int64(2_600), f.buyPriceOf(t, p.ID))

	// Receiving again must fail without touching stock
	_, err = f.purchasing.ReceivePurchase(order.ID, adminActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	assert.Equal(t, 60, f.stockOf(t, p.ID))
}

func TestCancelPurchase(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 3_500, 50, 20)

	order, err := f.purchasing.RecordPurchase(&PurchaseRequest{
		SupplierName: "PT Sumber Rejeki",
		Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_600, Quantity: 10}},
		Status:       model.PurchasePending,
	}, adminActor)
	require.NoError(t, err)

	cancelled, err := f.purchasing.CancelPurchase(order.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseCancelled, cancelled.Status)
	assert.Equal(t, 50, f.stockOf(t, p.ID))

	// A cancelled order can no longer be received
	_, err = f.purchasing.ReceivePurchase(order.ID, adminActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
}

func TestRecordPurchaseValidation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 3_500, 50, 20)

	cases := []struct {
		name string
		req  PurchaseRequest
	}{
		{"missing supplier", PurchaseRequest{
			Items:  []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_400, Quantity: 1}},
			Status: model.PurchasePending,
		}},
		{"empty items", PurchaseRequest{
			SupplierName: "PT Sumber Rejeki",
			Status:       model.PurchasePending,
		}},
		{"zero quantity", PurchaseRequest{
			SupplierName: "PT Sumber Rejeki",
			Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_400, Quantity: 0}},
			Status:       model.PurchasePending,
		}},
		{"created cancelled", PurchaseRequest{
			SupplierName: "PT Sumber Rejeki",
			Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_400, Quantity: 1}},
			Status:       model.PurchaseCancelled,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.purchasing.RecordPurchase(&tc.req, adminActor)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestRecordPurchaseForbiddenForCashier(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2500, 3_500, 50, 20)

	_, err := f.purchasing.RecordPurchase(&PurchaseRequest{
		SupplierName: "PT Sumber Rejeki",
		Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_400, Quantity: 1}},
		Status:       model.PurchasePending,
	}, cashierActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}
