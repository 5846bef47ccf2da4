package reports

import (
	"context"
	"sort"
	"time"

	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
)

type SummaryResponse struct {
	Period         models.ReportPeriod `json:"period"`
	FromDate       time.Time           `json:"from_date"`
	ToDate         time.Time           `json:"to_date"`
	TotalInvested  decimal.Decimal     `json:"total_invested"`
	TotalSold      decimal.Decimal     `json:"total_sold"`
	NetProfit      decimal.Decimal     `json:"net_profit"`
	ProfitMargin   decimal.Decimal     `json:"profit_margin"`
	SalesCount     int                 `json:"sales_count"`
	PurchasesCount int                 `json:"purchases_count"`
	TopProducts    []TopProductRow     `json:"top_products"`
}

type TopProductRow struct {
	ProductName string          `json:"product_name"`
	QtySold     decimal.Decimal `json:"qty_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
}

// TopProductsLimit caps the ranking in the summary report.
const TopProductsLimit = 5

// PeriodRange resolves a report period to an inclusive [from, to] window
// around now, in now's location.
func PeriodRange(period models.ReportPeriod, now time.Time) (time.Time, time.Time) {
	loc := now.Location()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)

	switch period {
	case models.ReportPeriodWeek:
		start := now.AddDate(0, 0, -7)
		from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		return from, endOfDay
	case models.ReportPeriodMonth:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return from, to
	default: // today
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return from, endOfDay
	}
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

// BuildSummary aggregates already-loaded history into period totals. Pure:
// no store access, no side effects, safe to recompute on every request.
func BuildSummary(sales []models.Sale, purchases []models.Purchase, period models.ReportPeriod, now time.Time) *SummaryResponse {
	from, to := PeriodRange(period, now)

	summary := SummaryResponse{
		Period:        period,
		FromDate:      from,
		ToDate:        to,
		TotalInvested: decimal.Zero,
		TotalSold:     decimal.Zero,
		NetProfit:     decimal.Zero,
		ProfitMargin:  decimal.Zero,
	}

	var periodSales []models.Sale
	for _, sale := range sales {
		if !inRange(sale.Date, from, to) {
			continue
		}
		periodSales = append(periodSales, sale)
		summary.TotalSold = summary.TotalSold.Add(sale.TotalAmount)
		summary.NetProfit = summary.NetProfit.Add(sale.TotalProfit)
		summary.SalesCount++
	}
	for _, purchase := range purchases {
		if !inRange(purchase.Date, from, to) {
			continue
		}
		summary.TotalInvested = summary.TotalInvested.Add(purchase.TotalAmount)
		summary.PurchasesCount++
	}

	// Margin is defined as 0 when nothing was sold.
	if summary.TotalSold.IsPositive() {
		summary.ProfitMargin = summary.NetProfit.
			Div(summary.TotalSold).
			Mul(decimal.NewFromInt(100))
	}

	summary.TopProducts = TopProducts(periodSales, TopProductsLimit)
	return &summary
}

// TopProducts ranks products by units sold across the given sales,
// aggregating quantity, revenue and profit per product name. Ties keep
// first-seen order (stable sort).
func TopProducts(sales []models.Sale, n int) []TopProductRow {
	index := make(map[string]int)
	var rows []TopProductRow

	for _, sale := range sales {
		for _, item := range sale.Items {
			i, ok := index[item.ProductName]
			if !ok {
				i = len(rows)
				index[item.ProductName] = i
				rows = append(rows, TopProductRow{ProductName: item.ProductName})
			}
			rows[i].QtySold = rows[i].QtySold.Add(item.Quantity)
			rows[i].Revenue = rows[i].Revenue.Add(item.ItemTotal)
			rows[i].Profit = rows[i].Profit.Add(item.ItemProfit)
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].QtySold.GreaterThan(rows[b].QtySold)
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// GetSummaryReport loads the history collections and aggregates them.
func GetSummaryReport(ctx context.Context, period models.ReportPeriod) (*SummaryResponse, error) {
	if !period.Valid() {
		return nil, utils.NewValidationError("unknown report period %q", string(period))
	}

	sales, err := models.GetSales(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := models.GetPurchases(ctx)
	if err != nil {
		return nil, err
	}

	return BuildSummary(sales, purchases, period, time.Now()), nil
}
