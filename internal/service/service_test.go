package service

import (
	"fmt"
	"testing"

	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ownerActor   = Actor{ID: "U-OWNER", Name: "Store Owner", Role: model.RoleOwner}
	adminActor   = Actor{ID: "U-ADMIN", Name: "Store Admin", Role: model.RoleAdmin}
	cashierActor = Actor{ID: "U-CASHIER", Name: "Front Cashier", Role: model.RoleCashier}
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Product{},
		&model.Sale{}, &model.SaleItem{},
		&model.PurchaseOrder{}, &model.PurchaseItem{},
		&model.OpnameSession{}, &model.OpnameDetail{},
		&model.StockLog{},
		&model.User{},
	))
	return db
}

// fixture wires the whole service stack over an in-memory database.
type fixture struct {
	db         *gorm.DB
	recon      *Reconciler
	catalog    CatalogService
	sales      SalesService
	purchasing PurchasingService
	opname     OpnameService
	dashboard  DashboardService

	productRepo repository.ProductRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	opnameRepo := repository.NewOpnameRepo(db)
	stockLogRepo := repository.NewStockLogRepo(db)

	recon := NewReconciler(db, stockLogRepo)
	taxRate := decimal.NewFromFloat(0.11)

	return &fixture{
		db:          db,
		recon:       recon,
		catalog:     NewCatalogService(productRepo, recon, nil),
		sales:       NewSalesService(saleRepo, recon, taxRate, nil),
		purchasing:  NewPurchasingService(purchaseRepo, productRepo, recon, nil),
		opname:      NewOpnameService(opnameRepo, productRepo, recon, nil),
		dashboard:   NewDashboardService(productRepo, saleRepo, stockLogRepo),
		productRepo: productRepo,
	}
}

func (f *fixture) seedProduct(t *testing.T, sku, name string, buyPrice, sellPrice int64, stock, minStock int) *model.Product {
	t.Helper()

	product := &model.Product{
		SKU:       sku,
		Name:      name,
		Category:  "Food",
		Unit:      "Pcs",
		BuyPrice:  buyPrice,
		SellPrice: sellPrice,
		Stock:     stock,
		MinStock:  minStock,
	}
	require.NoError(t, f.db.Create(product).Error)
	return product
}

func (f *fixture) stockOf(t *testing.T, id uuid.UUID) int {
	t.Helper()

	product, err := f.productRepo.FindByID(id)
	require.NoError(t, err)
	return product.Stock
}

func (f *fixture) buyPriceOf(t *testing.T, id uuid.UUID) int64 {
	t.Helper()

	product, err := f.productRepo.FindByID(id)
	require.NoError(t, err)
	return product.BuyPrice
}

func (f *fixture) countLogs(t *testing.T, logType model.StockLogType) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&model.StockLog{}).Where("type = ?", logType).Count(&count).Error)
	return count
}
