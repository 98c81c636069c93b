package service

import (
	"time"

	"github.com/mazenibra89-oss/Omni-POS/internal/repository"
)

// DashboardStats is the overview block of the reporting screen.
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int64 `json:"low_stock_count"`
	TotalValuation int64 `json:"total_valuation"` // stock * cost basis
}

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
	GetSalesSummary(days int) (*repository.SalesSummary, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	logRepo     repository.StockLogRepository
}

func NewDashboardService(productRepo repository.ProductRepository, saleRepo repository.SaleRepository, logRepo repository.StockLogRepository) DashboardService {
	return &dashboardService{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		logRepo:     logRepo,
	}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.logRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalProducts, err = s.productRepo.Count(); err != nil {
		return nil, err
	}

	lowStock, err := s.productRepo.FindLowStock()
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	if stats.TotalValuation, err = s.productRepo.TotalValuation(); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (s *dashboardService) GetSalesSummary(days int) (*repository.SalesSummary, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.saleRepo.Summary(startDate, endDate)
}
