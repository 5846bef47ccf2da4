package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/utils"
)

func validPurchaseInput() *models.NewPurchase {
	return &models.NewPurchase{
		Supplier: "Almacen Central",
		Date:     time.Now(),
		Items: []models.NewPurchaseItem{
			{ProductName: "Rice", Quantity: 10, UnitPrice: dec("45")},
		},
	}
}

func TestNewPurchaseValidateTrimsProductNames(t *testing.T) {
	input := validPurchaseInput()
	input.Items[0].ProductName = "  Rice  "
	if err := input.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if input.Items[0].ProductName != "Rice" {
		t.Fatalf("ProductName = %q, want %q", input.Items[0].ProductName, "Rice")
	}
}

func TestNewPurchaseValidateRejectsBadLines(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.NewPurchase)
	}{
		{"no items", func(in *models.NewPurchase) { in.Items = nil }},
		{"blank name", func(in *models.NewPurchase) { in.Items[0].ProductName = "   " }},
		{"zero quantity", func(in *models.NewPurchase) { in.Items[0].Quantity = 0 }},
		{"negative quantity", func(in *models.NewPurchase) { in.Items[0].Quantity = -3 }},
		{"zero price", func(in *models.NewPurchase) { in.Items[0].UnitPrice = dec("0") }},
		{"negative price", func(in *models.NewPurchase) { in.Items[0].UnitPrice = dec("-1") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validPurchaseInput()
			tc.mutate(input)
			err := input.Validate()
			var ve *utils.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate = %v, want *utils.ValidationError", err)
			}
		})
	}
}

func TestNewSaleValidateRejectsBadLines(t *testing.T) {
	valid := func() *models.NewSale {
		return &models.NewSale{
			Date: time.Now(),
			Items: []models.NewSaleItem{
				{ProductName: "Rice", Quantity: 2, SalePrice: dec("70")},
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*models.NewSale)
	}{
		{"no items", func(in *models.NewSale) { in.Items = nil }},
		{"blank name", func(in *models.NewSale) { in.Items[0].ProductName = "" }},
		{"zero quantity", func(in *models.NewSale) { in.Items[0].Quantity = 0 }},
		{"zero price", func(in *models.NewSale) { in.Items[0].SalePrice = dec("0") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid()
			tc.mutate(input)
			var ve *utils.ValidationError
			if err := input.Validate(); !errors.As(err, &ve) {
				t.Fatalf("Validate = %v, want *utils.ValidationError", err)
			}
		})
	}
}

func TestNewReturnValidateRejectsBadInput(t *testing.T) {
	valid := func() *models.NewReturn {
		return &models.NewReturn{
			PurchaseId: 1,
			Reason:     "damaged bags",
			Date:       time.Now(),
			Items: []models.NewReturnItem{
				{ProductName: "Rice", Quantity: 2},
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*models.NewReturn)
	}{
		{"missing purchase id", func(in *models.NewReturn) { in.PurchaseId = 0 }},
		{"blank reason", func(in *models.NewReturn) { in.Reason = "  " }},
		{"no items", func(in *models.NewReturn) { in.Items = nil }},
		{"blank name", func(in *models.NewReturn) { in.Items[0].ProductName = "" }},
		{"zero quantity", func(in *models.NewReturn) { in.Items[0].Quantity = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := valid()
			tc.mutate(input)
			var ve *utils.ValidationError
			if err := input.Validate(); !errors.As(err, &ve) {
				t.Fatalf("Validate = %v, want *utils.ValidationError", err)
			}
		})
	}
}

func TestReturnBoundedByPurchasedQuantity(t *testing.T) {
	purchase := &models.Purchase{
		ID: 7,
		Items: []models.PurchaseItem{
			{ProductName: "Rice", Quantity: dec("10"), UnitPrice: dec("45")},
			{ProductName: "Rice", Quantity: dec("5"), UnitPrice: dec("45")},
			{ProductName: "Beans", Quantity: dec("4"), UnitPrice: dec("30")},
		},
	}

	// Duplicate lines for the same product aggregate: 10 + 5 = 15.
	ok := &models.NewReturn{
		PurchaseId: 7, Reason: "r", Date: time.Now(),
		Items: []models.NewReturnItem{{ProductName: "Rice", Quantity: 15}},
	}
	if err := ok.ValidateAgainstPurchase(purchase); err != nil {
		t.Fatalf("ValidateAgainstPurchase: %v", err)
	}

	tooMany := &models.NewReturn{
		PurchaseId: 7, Reason: "r", Date: time.Now(),
		Items: []models.NewReturnItem{{ProductName: "Rice", Quantity: 16}},
	}
	var ve *utils.ValidationError
	if err := tooMany.ValidateAgainstPurchase(purchase); !errors.As(err, &ve) {
		t.Fatalf("over-return = %v, want *utils.ValidationError", err)
	}

	notInPurchase := &models.NewReturn{
		PurchaseId: 7, Reason: "r", Date: time.Now(),
		Items: []models.NewReturnItem{{ProductName: "Oil", Quantity: 1}},
	}
	if err := notInPurchase.ValidateAgainstPurchase(purchase); !errors.As(err, &ve) {
		t.Fatalf("foreign product = %v, want *utils.ValidationError", err)
	}
}

func TestReturnLinesForSameProductAggregateAgainstPurchasedQuantity(t *testing.T) {
	purchase := &models.Purchase{
		ID: 9,
		Items: []models.PurchaseItem{
			{ProductName: "Rice", Quantity: dec("4"), UnitPrice: dec("45")},
		},
	}

	// Two lines of 3 each are fine individually but sum to 6 > 4.
	split := &models.NewReturn{
		PurchaseId: 9, Reason: "r", Date: time.Now(),
		Items: []models.NewReturnItem{
			{ProductName: "Rice", Quantity: 3},
			{ProductName: "Rice", Quantity: 3},
		},
	}
	var ve *utils.ValidationError
	if err := split.ValidateAgainstPurchase(purchase); !errors.As(err, &ve) {
		t.Fatalf("split over-return = %v, want *utils.ValidationError", err)
	}

	withinBound := &models.NewReturn{
		PurchaseId: 9, Reason: "r", Date: time.Now(),
		Items: []models.NewReturnItem{
			{ProductName: "Rice", Quantity: 2},
			{ProductName: "Rice", Quantity: 2},
		},
	}
	if err := withinBound.ValidateAgainstPurchase(purchase); err != nil {
		t.Fatalf("ValidateAgainstPurchase: %v", err)
	}
}

func TestPurchasedUnitPrice(t *testing.T) {
	purchase := &models.Purchase{
		Items: []models.PurchaseItem{
			{ProductName: "Rice", UnitPrice: dec("45")},
			{ProductName: "Beans", UnitPrice: dec("30")},
		},
	}

	price, ok := models.PurchasedUnitPrice(purchase, "Beans")
	if !ok {
		t.Fatal("expected Beans to be found")
	}
	assertDecimal(t, "price", price, dec("30"))

	if _, ok := models.PurchasedUnitPrice(purchase, "Oil"); ok {
		t.Fatal("expected Oil to be absent")
	}
}
