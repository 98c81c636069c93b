package service

import (
	"testing"

	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)
	f.seedProduct(t, "PRD-002", "Teh Botol Sosro", 3_000, 4_500, 10, 12)

	stats, err := f.dashboard.GetDashboardStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	// 50 * 2500 + 10 * 3000
	assert.Equal(t, int64(155_000), stats.TotalValuation)
}

func TestSalesSummaryReflectsLedger(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	_, err := f.sales.RecordSale(&SaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: model.PaymentCash,
	}, cashierActor)
	require.NoError(t, err)

	summary, err := f.dashboard.GetSalesSummary(7)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.TransactionCount)
	// subtotal 7000, no discount, 11% tax 770, total 7770
	assert.Equal(t, int64(7_770), summary.Revenue)
	assert.Equal(t, int64(770), summary.TaxCollected)
	assert.Zero(t, summary.DiscountGiven)
}

func TestStockMovementAggregation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	_, err := f.sales.RecordSale(&SaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 5}},
		PaymentMethod: model.PaymentCash,
	}, cashierActor)
	require.NoError(t, err)

	_, err = f.purchasing.RecordPurchase(&PurchaseRequest{
		SupplierName: "PT Sumber Rejeki",
		Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_600, Quantity: 12}},
		Status:       model.PurchaseReceived,
	}, adminActor)
	require.NoError(t, err)

	movement, err := f.dashboard.GetStockMovement(7)
	require.NoError(t, err)
	require.Len(t, movement, 1)

	assert.Equal(t, 12, movement[0].Inbound)
	assert.Equal(t, 5, movement[0].Outbound)
}
