package service

import (
	"sync"

	"gorm.io/gorm"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// AnalyticsService computes derived statistics over the catalog, the order
// ledger and the merchant registry. It only ever reads.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates the analytics component
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// ProductSales is the sales count of one product
type ProductSales struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	TotalSold int64  `json:"total_sold"`
}

// ProductTotals summarizes a merchant's product sales
type ProductTotals struct {
	TotalProducts       int64   `json:"total_products"`
	TotalSoldProducts   int64   `json:"total_sold_products"`
	AverageSoldProducts float64 `json:"average_sold_products"`
}

// ProductAnalyticsReport is the per-merchant product sales aggregate
type ProductAnalyticsReport struct {
	PerProduct []ProductSales `json:"per_product"`
	Totals     ProductTotals  `json:"totals"`
}

// CustomerSpending is one customer's spending with a merchant, keyed by the
// purchaser email recorded on the orders.
type CustomerSpending struct {
	Email       string  `json:"email"`
	TotalSpent  float64 `json:"total_spent"`
	TotalOrders int64   `json:"total_orders"`
}

// PurchasingTotals summarizes customer spending for a merchant
type PurchasingTotals struct {
	TotalCustomers             int64   `json:"total_customers"`
	TotalSpent                 float64 `json:"total_spent"`
	AverageSpendingPerCustomer float64 `json:"average_spending_per_customer"`
}

// PurchasingPowerReport is the per-merchant customer spending aggregate
type PurchasingPowerReport struct {
	PerCustomer []CustomerSpending `json:"per_customer"`
	Totals      PurchasingTotals   `json:"totals"`
}

// MerchantAnalytics is one merchant's sub-aggregate in the fleet report.
// Error carries a marker when this merchant's computation failed; sibling
// results are unaffected.
type MerchantAnalytics struct {
	Merchant        model.Merchant          `json:"merchant"`
	Products        *ProductAnalyticsReport `json:"product_analytics,omitempty"`
	PurchasingPower *PurchasingPowerReport  `json:"purchasing_power_analytics,omitempty"`
	Error           string                  `json:"error,omitempty"`
}

// FleetAnalytics aggregates every approved merchant
type FleetAnalytics struct {
	Merchants                      []MerchantAnalytics `json:"merchants"`
	TotalMerchants                 int64               `json:"total_merchants"`
	TotalProductsSold              int64               `json:"total_products_sold"`
	TotalAmountSpent               float64             `json:"total_amount_spent"`
	AverageProductsSoldPerMerchant float64             `json:"average_products_sold_per_merchant"`
	AverageAmountSpentPerMerchant  float64             `json:"average_amount_spent_per_merchant"`
}

// ProductAnalytics reports how many orders each of the merchant's products
// has sold. A merchant with no products reports averages of 0, never NaN.
func (s *AnalyticsService) ProductAnalytics(merchantID uint) (*ProductAnalyticsReport, error) {
	if err := s.checkMerchant(merchantID); err != nil {
		return nil, err
	}

	var products []model.Product
	if err := s.db.Where("merchant_id = ?", merchantID).Order("id ASC").Find(&products).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list merchant products")
	}

	type soldRow struct {
		ProductID uint
		Sold      int64
	}
	var rows []soldRow
	err := s.db.Model(&model.Order{}).
		Select("product_id, COUNT(*) AS sold").
		Where("merchant_id = ?", merchantID).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to count product sales")
	}

	soldByProduct := make(map[uint]int64, len(rows))
	for _, r := range rows {
		soldByProduct[r.ProductID] = r.Sold
	}

	report := &ProductAnalyticsReport{PerProduct: make([]ProductSales, 0, len(products))}
	for _, p := range products {
		sold := soldByProduct[p.ID]
		report.PerProduct = append(report.PerProduct, ProductSales{
			ProductID: p.ID,
			Name:      p.Name,
			TotalSold: sold,
		})
		report.Totals.TotalSoldProducts += sold
	}
	report.Totals.TotalProducts = int64(len(products))
	if report.Totals.TotalProducts > 0 {
		report.Totals.AverageSoldProducts =
			float64(report.Totals.TotalSoldProducts) / float64(report.Totals.TotalProducts)
	}

	return report, nil
}

// PurchasingPowerAnalytics reports spending per customer for one merchant,
// grouped by purchaser email.
func (s *AnalyticsService) PurchasingPowerAnalytics(merchantID uint) (*PurchasingPowerReport, error) {
	if err := s.checkMerchant(merchantID); err != nil {
		return nil, err
	}

	var rows []CustomerSpending
	err := s.db.Model(&model.Order{}).
		Select("email, SUM(quantity * total_amount) AS total_spent, COUNT(*) AS total_orders").
		Where("merchant_id = ?", merchantID).
		Group("email").
		Order("email ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to aggregate customer spending")
	}

	report := &PurchasingPowerReport{PerCustomer: rows}
	for _, r := range rows {
		report.Totals.TotalSpent += r.TotalSpent
	}
	report.Totals.TotalCustomers = int64(len(rows))
	if report.Totals.TotalCustomers > 0 {
		report.Totals.AverageSpendingPerCustomer =
			report.Totals.TotalSpent / float64(report.Totals.TotalCustomers)
	}

	return report, nil
}

// AllMerchantAnalytics computes each APPROVED merchant's sub-aggregates
// concurrently. A failing merchant degrades to an error marker in its slot;
// fleet totals cover the successful sub-results only.
func (s *AnalyticsService) AllMerchantAnalytics() (*FleetAnalytics, error) {
	var merchants []model.Merchant
	if err := s.db.Where("status = ?", model.MerchantApproved).Order("id ASC").Find(&merchants).Error; err != nil {
		return nil, apperr.Internal(err, "failed to list approved merchants")
	}

	fleet := &FleetAnalytics{
		Merchants:      make([]MerchantAnalytics, len(merchants)),
		TotalMerchants: int64(len(merchants)),
	}

	var wg sync.WaitGroup
	for i, merchant := range merchants {
		wg.Add(1)
		go func(slot int, m model.Merchant) {
			defer wg.Done()
			entry := MerchantAnalytics{Merchant: m}

			products, err := s.ProductAnalytics(m.ID)
			if err == nil {
				entry.Products = products
				entry.PurchasingPower, err = s.PurchasingPowerAnalytics(m.ID)
			}
			if err != nil {
				entry.Error = apperr.MessageOf(err)
			}

			fleet.Merchants[slot] = entry
		}(i, merchant)
	}
	wg.Wait()

	for _, entry := range fleet.Merchants {
		if entry.Error != "" {
			continue
		}
		fleet.TotalProductsSold += entry.Products.Totals.TotalSoldProducts
		fleet.TotalAmountSpent += entry.PurchasingPower.Totals.TotalSpent
	}
	if fleet.TotalMerchants > 0 {
		fleet.AverageProductsSoldPerMerchant = float64(fleet.TotalProductsSold) / float64(fleet.TotalMerchants)
		fleet.AverageAmountSpentPerMerchant = fleet.TotalAmountSpent / float64(fleet.TotalMerchants)
	}

	return fleet, nil
}

func (s *AnalyticsService) checkMerchant(merchantID uint) error {
	var count int64
	if err := s.db.Model(&model.Merchant{}).Where("id = ?", merchantID).Count(&count).Error; err != nil {
		return apperr.Internal(err, "failed to load merchant")
	}
	if count == 0 {
		return apperr.NotFound("merchant %d not found", merchantID)
	}
	return nil
}
