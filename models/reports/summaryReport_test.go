package reports_test

import (
	"testing"
	"time"

	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/models/reports"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

var noon = time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)

func TestPeriodRangeToday(t *testing.T) {
	from, to := reports.PeriodRange(models.ReportPeriodToday, noon)
	if from.Day() != 15 || from.Hour() != 0 || from.Minute() != 0 {
		t.Fatalf("from = %s, want start of March 15", from)
	}
	if to.Day() != 15 || to.Hour() != 23 {
		t.Fatalf("to = %s, want end of March 15", to)
	}
	if !noon.After(from) || !noon.Before(to) {
		t.Fatalf("now %s outside [%s, %s]", noon, from, to)
	}
}

func TestPeriodRangeWeek(t *testing.T) {
	from, to := reports.PeriodRange(models.ReportPeriodWeek, noon)
	if from.Day() != 8 || from.Month() != time.March || from.Hour() != 0 {
		t.Fatalf("from = %s, want start of March 8", from)
	}
	if to.Day() != 15 || to.Hour() != 23 {
		t.Fatalf("to = %s, want end of March 15", to)
	}
}

func TestPeriodRangeMonth(t *testing.T) {
	from, to := reports.PeriodRange(models.ReportPeriodMonth, noon)
	if from.Day() != 1 || from.Month() != time.March || from.Hour() != 0 {
		t.Fatalf("from = %s, want start of March", from)
	}
	if to.Month() != time.March || to.Day() != 31 {
		t.Fatalf("to = %s, want end of March", to)
	}
}

func TestBuildSummaryTotalsAndMargin(t *testing.T) {
	sales := []models.Sale{
		{Date: noon, TotalAmount: dec("350"), TotalProfit: dec("100")},
	}
	purchases := []models.Purchase{
		{Date: noon, TotalAmount: dec("450")},
	}

	summary := reports.BuildSummary(sales, purchases, models.ReportPeriodToday, noon)

	if !summary.TotalInvested.Equal(dec("450")) {
		t.Fatalf("TotalInvested = %s, want 450", summary.TotalInvested)
	}
	if !summary.TotalSold.Equal(dec("350")) {
		t.Fatalf("TotalSold = %s, want 350", summary.TotalSold)
	}
	if !summary.NetProfit.Equal(dec("100")) {
		t.Fatalf("NetProfit = %s, want 100", summary.NetProfit)
	}
	if got := summary.ProfitMargin.StringFixed(2); got != "28.57" {
		t.Fatalf("ProfitMargin = %s, want 28.57", got)
	}
	if summary.SalesCount != 1 || summary.PurchasesCount != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", summary.SalesCount, summary.PurchasesCount)
	}
}

func TestBuildSummaryExcludesOutOfRangeRecords(t *testing.T) {
	sales := []models.Sale{
		{Date: noon, TotalAmount: dec("100"), TotalProfit: dec("10")},
		{Date: noon.AddDate(0, 0, -1), TotalAmount: dec("999"), TotalProfit: dec("99")},
	}
	purchases := []models.Purchase{
		{Date: noon.AddDate(0, 0, 1), TotalAmount: dec("500")},
	}

	summary := reports.BuildSummary(sales, purchases, models.ReportPeriodToday, noon)

	if !summary.TotalSold.Equal(dec("100")) {
		t.Fatalf("TotalSold = %s, want 100", summary.TotalSold)
	}
	if summary.PurchasesCount != 0 {
		t.Fatalf("PurchasesCount = %d, want 0", summary.PurchasesCount)
	}
}

func TestBuildSummaryWithNoSalesHasZeroMargin(t *testing.T) {
	purchases := []models.Purchase{{Date: noon, TotalAmount: dec("450")}}

	summary := reports.BuildSummary(nil, purchases, models.ReportPeriodToday, noon)

	if !summary.ProfitMargin.IsZero() {
		t.Fatalf("ProfitMargin = %s, want 0", summary.ProfitMargin)
	}
	if !summary.TotalSold.IsZero() {
		t.Fatalf("TotalSold = %s, want 0", summary.TotalSold)
	}
}

func TestTopProductsRanksByUnitsSold(t *testing.T) {
	sales := []models.Sale{
		{Date: noon, Items: []models.SaleItem{
			{ProductName: "Rice", Quantity: dec("5"), ItemTotal: dec("350"), ItemProfit: dec("100")},
			{ProductName: "Beans", Quantity: dec("2"), ItemTotal: dec("80"), ItemProfit: dec("20")},
		}},
		{Date: noon, Items: []models.SaleItem{
			{ProductName: "Beans", Quantity: dec("6"), ItemTotal: dec("240"), ItemProfit: dec("60")},
			{ProductName: "Oil", Quantity: dec("1"), ItemTotal: dec("150"), ItemProfit: dec("30")},
		}},
	}

	rows := reports.TopProducts(sales, 2)
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].ProductName != "Beans" || rows[1].ProductName != "Rice" {
		t.Fatalf("order = %s, %s; want Beans, Rice", rows[0].ProductName, rows[1].ProductName)
	}
	if !rows[0].QtySold.Equal(dec("8")) {
		t.Fatalf("Beans QtySold = %s, want 8", rows[0].QtySold)
	}
	if !rows[0].Revenue.Equal(dec("320")) {
		t.Fatalf("Beans Revenue = %s, want 320", rows[0].Revenue)
	}
	if !rows[0].Profit.Equal(dec("80")) {
		t.Fatalf("Beans Profit = %s, want 80", rows[0].Profit)
	}
}

func TestTopProductsTieKeepsFirstSeenOrder(t *testing.T) {
	sales := []models.Sale{
		{Date: noon, Items: []models.SaleItem{
			{ProductName: "Rice", Quantity: dec("3")},
			{ProductName: "Beans", Quantity: dec("3")},
		}},
	}

	rows := reports.TopProducts(sales, 0)
	if rows[0].ProductName != "Rice" || rows[1].ProductName != "Beans" {
		t.Fatalf("order = %s, %s; want Rice, Beans", rows[0].ProductName, rows[1].ProductName)
	}
}
