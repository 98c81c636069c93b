package service

import (
	"testing"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpnameTemplateCoversCatalog(t *testing.T) {
	f := newFixture(t)
	p1 := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)
	p2 := f.seedProduct(t, "PRD-002", "Teh Botol Sosro", 3_000, 4_500, 24, 12)

	details, err := f.opname.Template()
	require.NoError(t, err)
	require.Len(t, details, 2)

	byID := map[uuid.UUID]model.OpnameDetail{}
	for _, d := range details {
		byID[d.ProductID] = d
	}
	assert.Equal(t, 50, byID[p1.ID].SystemStock)
	assert.Equal(t, 50, byID[p1.ID].PhysicalStock)
	assert.Equal(t, 24, byID[p2.ID].SystemStock)
	assert.Zero(t, byID[p2.ID].Difference)
}

func TestSaveSessionComputesVariance(t *testing.T) {
	f := newFixture(t)
	p1 := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)
	p2 := f.seedProduct(t, "PRD-002", "Teh Botol Sosro", 3_000, 4_500, 24, 12)

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p1.ID: 47}, "monthly count", ownerActor)
	require.NoError(t, err)
	assert.Equal(t, model.OpnameDraft, session.Status)
	require.Len(t, session.Details, 2)

	for _, d := range session.Details {
		switch d.ProductID {
		case p1.ID:
			assert.Equal(t, 50, d.SystemStock)
			assert.Equal(t, 47, d.PhysicalStock)
			assert.Equal(t, -3, d.Difference)
		case p2.ID:
			// Uncounted products default to matching the snapshot
			assert.Equal(t, 24, d.PhysicalStock)
			assert.Zero(t, d.Difference)
		default:
			t.Fatalf("unexpected product %s in session", d.ProductID)
		}
	}

	// Saving the draft never touches live stock
	assert.Equal(t, 50, f.stockOf(t, p1.ID))
}

func TestSaveSessionRejectsUnknownProduct(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	_, err := f.opname.SaveSession(map[uuid.UUID]int{uuid.New(): 10}, "", ownerActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnknownProduct, apperr.KindOf(err))
}

func TestSaveSessionEmptyCatalog(t *testing.T) {
	f := newFixture(t)

	_, err := f.opname.SaveSession(nil, "", ownerActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestEditDetailOnlyWhileDraft(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p.ID: 47}, "", ownerActor)
	require.NoError(t, err)

	edited, err := f.opname.EditDetail(session.ID, p.ID, 45, ownerActor)
	require.NoError(t, err)
	require.Len(t, edited.Details, 1)
	assert.Equal(t, 45, edited.Details[0].PhysicalStock)
	assert.Equal(t, -5, edited.Details[0].Difference)

	_, err = f.opname.Propose(session.ID, ownerActor)
	require.NoError(t, err)

	_, err = f.opname.EditDetail(session.ID, p.ID, 40, ownerActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
}

func TestProposeRequiresDraft(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p.ID: 47}, "", ownerActor)
	require.NoError(t, err)

	proposed, err := f.opname.Propose(session.ID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, model.OpnameProposed, proposed.Status)

	_, err = f.opname.Propose(session.ID, ownerActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
}

func TestApproveRequiresProposedGate(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p.ID: 47}, "", ownerActor)
	require.NoError(t, err)

	// Approval straight from DRAFT must fail and leave stock alone
	_, err = f.opname.Approve(session.ID, ownerActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	assert.Equal(t, 50, f.stockOf(t, p.ID))
}

func TestApproveForbiddenForCashier(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p.ID: 47}, "", ownerActor)
	require.NoError(t, err)
	_, err = f.opname.Propose(session.ID, ownerActor)
	require.NoError(t, err)

	_, err = f.opname.Approve(session.ID, cashierActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// The rejection must leave the session PROPOSED and stock untouched
	got, err := f.opname.GetSessionByID(session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OpnameProposed, got.Status)
	assert.Equal(t, 50, f.stockOf(t, p.ID))

	_, err = f.opname.Reject(session.ID, cashierActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestApproveSyncsStockExactlyOnce(t *testing.T) {
	f := newFixture(t)
	p1 := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)
	p2 := f.seedProduct(t, "PRD-002", "Teh Botol Sosro", 3_000, 4_500, 24, 12)

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p1.ID: 47}, "", ownerActor)
	require.NoError(t, err)
	_, err = f.opname.Propose(session.ID, ownerActor)
	require.NoError(t, err)

	approved, err := f.opname.Approve(session.ID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, model.OpnameApproved, approved.Status)
	assert.Equal(t, ownerActor.ID, approved.ApprovedBy)

	assert.Equal(t, 47, f.stockOf(t, p1.ID))
	assert.Equal(t, 24, f.stockOf(t, p2.ID))
	// Only the line with a variance produces an audit entry
	assert.Equal(t, int64(1), f.countLogs(t, model.StockLogOpname))

	// A second approval must fail and must not re-apply the counts
	_, err = f.opname.Approve(session.ID, ownerActor)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	assert.Equal(t, 47, f.stockOf(t, p1.ID))
	assert.Equal(t, int64(1), f.countLogs(t, model.StockLogOpname))
}

func TestApproveZeroVarianceIsNoOp(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	session, err := f.opname.SaveSession(nil, "all matched", ownerActor)
	require.NoError(t, err)
	_, err = f.opname.Propose(session.ID, ownerActor)
	require.NoError(t, err)

	approved, err := f.opname.Approve(session.ID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, model.OpnameApproved, approved.Status)
	assert.Equal(t, 50, f.stockOf(t, p.ID))
	assert.Zero(t, f.countLogs(t, model.StockLogOpname))
}

func TestRejectDiscardsCounts(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 50, 20)

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p.ID: 10}, "", ownerActor)
	require.NoError(t, err)
	_, err = f.opname.Propose(session.ID, ownerActor)
	require.NoError(t, err)

	rejected, err := f.opname.Reject(session.ID, ownerActor)
	require.NoError(t, err)
	assert.Equal(t, model.OpnameRejected, rejected.Status)
	assert.Equal(t, 50, f.stockOf(t, p.ID))

	// Terminal state: neither approval nor a second rejection is reachable
	_, err = f.opname.Approve(session.ID, ownerActor)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
	_, err = f.opname.Reject(session.ID, ownerActor)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
}

// TestFullStockCycle walks a product through a trading day: a sale, a
// received purchase, then a counted opname that trues stock up against
// the physical shelf.
func TestFullStockCycle(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t, "PRD-001", "Indomie Goreng Spcl", 2_500, 3_500, 100, 20)

	_, err := f.sales.RecordSale(&SaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID, Quantity: 10}},
		PaymentMethod: model.PaymentCash,
	}, cashierActor)
	require.NoError(t, err)
	assert.Equal(t, 90, f.stockOf(t, p.ID))

	_, err = f.purchasing.RecordPurchase(&PurchaseRequest{
		SupplierName: "PT Sumber Rejeki",
		Items:        []PurchaseItemRequest{{ProductID: p.ID, BuyPrice: 2_600, Quantity: 20}},
		Status:       model.PurchaseReceived,
	}, adminActor)
	require.NoError(t, err)
	assert.Equal(t, 110, f.stockOf(t, p.ID))
	assert.Equal(t, int64(2_600), f.buyPriceOf(t, p.ID))

	session, err := f.opname.SaveSession(map[uuid.UUID]int{p.ID: 105}, "shelf count", adminActor)
	require.NoError(t, err)
	_, err = f.opname.Propose(session.ID, adminActor)
	require.NoError(t, err)
	_, err = f.opname.Approve(session.ID, ownerActor)
	require.NoError(t, err)

	assert.Equal(t, 105, f.stockOf(t, p.ID))

	// One audit entry per mutation class
	assert.Equal(t, int64(1), f.countLogs(t, model.StockLogSale))
	assert.Equal(t, int64(1), f.countLogs(t, model.StockLogPurchase))
	assert.Equal(t, int64(1), f.countLogs(t, model.StockLogOpname))
}
