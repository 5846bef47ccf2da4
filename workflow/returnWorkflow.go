package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostReturn reverses part of a prior purchase back to the supplier. Each
// line is bounded by the originally purchased quantity and by stock on hand;
// the units leave the ledger at current average cost (write-off), the same
// arithmetic a sale uses, so the average cost of what remains is unchanged.
func PostReturn(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input *models.NewReturn) (*models.PurchaseReturn, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ret := models.PurchaseReturn{
		PurchaseId: input.PurchaseId,
		Reason:     input.Reason,
		Date:       input.Date,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireInventoryPostingLock(tx); err != nil {
			return err
		}
		defer ReleaseInventoryPostingLock(tx)

		var purchase models.Purchase
		if err := tx.Preload("Items").First(&purchase, input.PurchaseId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrPurchaseNotFound
			}
			return err
		}

		if err := input.ValidateAgainstPurchase(&purchase); err != nil {
			return err
		}

		totalAmount := decimal.Zero
		for _, item := range input.Items {
			qty := decimal.NewFromInt(item.Quantity)

			unitPrice, ok := models.PurchasedUnitPrice(&purchase, item.ProductName)
			if !ok {
				return utils.NewValidationError("product %q is not part of purchase %d", item.ProductName, purchase.ID)
			}

			product, err := models.LockProductByName(tx, item.ProductName)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: %q", utils.ErrProductNotFound, item.ProductName)
			}
			if err := product.ApplyReturn(qty); err != nil {
				return err
			}
			if err := tx.Save(product).Error; err != nil {
				return err
			}

			itemTotal := qty.Mul(unitPrice)
			totalAmount = totalAmount.Add(itemTotal)
			ret.Items = append(ret.Items, models.PurchaseReturnItem{
				ProductName: item.ProductName,
				Quantity:    qty,
				UnitPrice:   unitPrice,
				ItemTotal:   itemTotal,
			})
		}

		ret.TotalAmount = totalAmount
		return tx.Create(&ret).Error
	})
	if err != nil {
		config.LogError(logger, "returnWorkflow.go", "PostReturn", "posting transaction", input, err)
		return nil, asDomainOrCommitError(err)
	}

	return &ret, nil
}
