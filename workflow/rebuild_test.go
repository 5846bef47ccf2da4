package workflow

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReplayRebuildsWeightedAverage(t *testing.T) {
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	events := []replayEvent{
		{date: day, kind: replayPurchase, name: "Rice", qty: dec("10"), unitPrice: dec("45")},
		{date: day.AddDate(0, 0, 1), kind: replayPurchase, name: "Rice", qty: dec("10"), unitPrice: dec("55")},
		{date: day.AddDate(0, 0, 2), kind: replaySale, name: "Rice", qty: dec("5")},
		{date: day.AddDate(0, 0, 3), kind: replayReturn, name: "Rice", qty: dec("2")},
	}

	states := replay(events, quietLogger())

	rice := states["Rice"]
	if rice == nil {
		t.Fatal("no state for Rice")
	}
	if !rice.Quantity.Equal(dec("13")) {
		t.Fatalf("Quantity = %s, want 13", rice.Quantity)
	}
	if !rice.AverageCost.Equal(dec("50")) {
		t.Fatalf("AverageCost = %s, want 50", rice.AverageCost)
	}
	if !rice.TotalCost.Equal(dec("650")) {
		t.Fatalf("TotalCost = %s, want 650", rice.TotalCost)
	}
}

func TestReplaySkipsMovementsWithoutPurchaseHistory(t *testing.T) {
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	events := []replayEvent{
		{date: day, kind: replaySale, name: "Ghost", qty: dec("5")},
	}

	states := replay(events, quietLogger())
	if _, ok := states["Ghost"]; ok {
		t.Fatal("expected no state for a product never purchased")
	}
}

func TestReplayCarriesNegativeBalanceOnCorruptHistory(t *testing.T) {
	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	events := []replayEvent{
		{date: day, kind: replayPurchase, name: "Rice", qty: dec("3"), unitPrice: dec("45")},
		{date: day.AddDate(0, 0, 1), kind: replaySale, name: "Rice", qty: dec("5")},
	}

	states := replay(events, quietLogger())

	rice := states["Rice"]
	if !rice.Quantity.Equal(dec("-2")) {
		t.Fatalf("Quantity = %s, want -2", rice.Quantity)
	}
	if !rice.TotalCost.Equal(rice.Quantity.Mul(rice.AverageCost)) {
		t.Fatalf("TotalCost %s != Quantity * AverageCost", rice.TotalCost)
	}
}
