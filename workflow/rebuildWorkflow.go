package workflow

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/colmadosys/colmado_backend/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	replayPurchase = iota
	replaySale
	replayReturn
)

type replayEvent struct {
	date      time.Time
	createdAt time.Time
	refId     int
	kind      int
	name      string
	qty       decimal.Decimal
	unitPrice decimal.Decimal
}

// errRollbackDryRun aborts the rebuild transaction after the replay ran so
// a dry run leaves no trace.
var errRollbackDryRun = errors.New("dry run rollback")

// RebuildInventory recomputes every product's quantity, average cost and
// total cost by replaying the full purchase, sale and return history in
// date order. It is the recovery path when product rows drift from their
// history (crash mid-migration, manual DB edits). Returns the number of
// product rows that would be rewritten; with dryRun set the transaction
// rolls back instead of committing.
func RebuildInventory(ctx context.Context, db *gorm.DB, logger *logrus.Logger, dryRun bool) (int, error) {
	updated := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireInventoryPostingLock(tx); err != nil {
			return err
		}
		defer ReleaseInventoryPostingLock(tx)

		events, err := loadReplayEvents(tx)
		if err != nil {
			return err
		}

		states := replay(events, logger)

		for name, state := range states {
			res := tx.Model(&models.Product{}).Where("name = ?", name).Updates(map[string]any{
				"quantity":     state.Quantity,
				"average_cost": state.AverageCost,
				"total_cost":   state.TotalCost,
			})
			if res.Error != nil {
				return res.Error
			}
			updated += int(res.RowsAffected)
		}
		if dryRun {
			return errRollbackDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRollbackDryRun) {
		return 0, err
	}
	return updated, nil
}

func loadReplayEvents(tx *gorm.DB) ([]replayEvent, error) {
	var events []replayEvent

	var purchases []models.Purchase
	if err := tx.Preload("Items").Find(&purchases).Error; err != nil {
		return nil, err
	}
	for _, p := range purchases {
		for _, item := range p.Items {
			events = append(events, replayEvent{
				date: p.Date, createdAt: p.CreatedAt, refId: p.ID,
				kind: replayPurchase, name: item.ProductName,
				qty: item.Quantity, unitPrice: item.UnitPrice,
			})
		}
	}

	var sales []models.Sale
	if err := tx.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	for _, s := range sales {
		for _, item := range s.Items {
			events = append(events, replayEvent{
				date: s.Date, createdAt: s.CreatedAt, refId: s.ID,
				kind: replaySale, name: item.ProductName,
				qty: item.Quantity,
			})
		}
	}

	var returns []models.PurchaseReturn
	if err := tx.Preload("Items").Find(&returns).Error; err != nil {
		return nil, err
	}
	for _, r := range returns {
		for _, item := range r.Items {
			events = append(events, replayEvent{
				date: r.Date, createdAt: r.CreatedAt, refId: r.ID,
				kind: replayReturn, name: item.ProductName,
				qty: item.Quantity,
			})
		}
	}

	// Date order, then commit order. Items within one record keep their
	// original sequence (stable sort).
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].date.Equal(events[j].date) {
			return events[i].date.Before(events[j].date)
		}
		return events[i].createdAt.Before(events[j].createdAt)
	})
	return events, nil
}

// replay folds the event stream through the same costing rules the posting
// workflows use. A shortfall mid-replay means the history itself was
// corrupted; the rebuild logs it and carries the negative balance forward
// rather than aborting.
func replay(events []replayEvent, logger *logrus.Logger) map[string]*models.Product {
	states := make(map[string]*models.Product)
	for _, event := range events {
		state, ok := states[event.name]
		if event.kind == replayPurchase {
			if !ok {
				states[event.name] = &models.Product{
					Name:        event.name,
					Quantity:    event.qty,
					AverageCost: event.unitPrice,
					TotalCost:   event.qty.Mul(event.unitPrice),
				}
			} else {
				state.ApplyPurchase(event.qty, event.unitPrice)
			}
			continue
		}

		if !ok {
			logger.WithFields(logrus.Fields{
				"field":   "RebuildInventory",
				"product": event.name,
				"ref_id":  event.refId,
			}).Warn("outbound movement for a product with no purchase history; skipping")
			continue
		}
		if err := state.ApplySale(event.qty); err != nil {
			logger.WithFields(logrus.Fields{
				"field":   "RebuildInventory",
				"product": event.name,
				"ref_id":  event.refId,
			}).Warn("history replays below zero; carrying negative balance: " + err.Error())
			state.Quantity = state.Quantity.Sub(event.qty)
			state.TotalCost = state.Quantity.Mul(state.AverageCost)
		}
	}
	return states
}
