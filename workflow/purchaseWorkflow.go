package workflow

import (
	"context"
	"errors"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostPurchase records a stock-in transaction: every referenced product is
// created or blended into its weighted-average cost, and one immutable
// Purchase record is appended, all inside a single transaction. A failing
// line rolls the whole posting back.
func PostPurchase(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input *models.NewPurchase) (*models.Purchase, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	purchase := models.Purchase{
		Supplier: input.Supplier,
		Date:     input.Date,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireInventoryPostingLock(tx); err != nil {
			return err
		}
		defer ReleaseInventoryPostingLock(tx)

		totalAmount := decimal.Zero
		for _, item := range input.Items {
			qty := decimal.NewFromInt(item.Quantity)

			product, err := models.LockProductByName(tx, item.ProductName)
			if err != nil {
				return err
			}
			if product == nil {
				product = &models.Product{
					Name:        item.ProductName,
					Quantity:    qty,
					AverageCost: item.UnitPrice,
					TotalCost:   qty.Mul(item.UnitPrice),
				}
				if err := tx.Create(product).Error; err != nil {
					return err
				}
			} else {
				product.ApplyPurchase(qty, item.UnitPrice)
				if err := tx.Save(product).Error; err != nil {
					return err
				}
			}

			itemTotal := qty.Mul(item.UnitPrice)
			totalAmount = totalAmount.Add(itemTotal)
			purchase.Items = append(purchase.Items, models.PurchaseItem{
				ProductName: item.ProductName,
				Quantity:    qty,
				UnitPrice:   item.UnitPrice,
				ItemTotal:   itemTotal,
			})
		}

		purchase.TotalAmount = totalAmount
		return tx.Create(&purchase).Error
	})
	if err != nil {
		config.LogError(logger, "purchaseWorkflow.go", "PostPurchase", "posting transaction", input, err)
		return nil, asDomainOrCommitError(err)
	}

	return &purchase, nil
}

// asDomainOrCommitError passes typed domain failures through unchanged and
// wraps everything else (network/store) as a retryable commit failure.
func asDomainOrCommitError(err error) error {
	var ve *utils.ValidationError
	var ise *utils.InsufficientStockError
	if errors.As(err, &ve) || errors.As(err, &ise) ||
		errors.Is(err, utils.ErrProductNotFound) || errors.Is(err, utils.ErrPurchaseNotFound) {
		return err
	}
	return &utils.CommitError{Err: err}
}
