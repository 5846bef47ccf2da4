package workflow

import (
	"context"
	"fmt"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PostSale records a stock-out transaction. The stock guard is evaluated
// against row-locked ledger state inside the transaction, never against a
// client snapshot, so two concurrent sales of the same product serialize
// instead of both passing the check. CostPrice is snapshotted per line
// before the decrement; the average cost itself is never touched by a sale.
func PostSale(ctx context.Context, db *gorm.DB, logger *logrus.Logger, input *models.NewSale) (*models.Sale, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	sale := models.Sale{
		Date: input.Date,
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireInventoryPostingLock(tx); err != nil {
			return err
		}
		defer ReleaseInventoryPostingLock(tx)

		totalAmount := decimal.Zero
		totalProfit := decimal.Zero
		for _, item := range input.Items {
			qty := decimal.NewFromInt(item.Quantity)

			product, err := models.LockProductByName(tx, item.ProductName)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: %q", utils.ErrProductNotFound, item.ProductName)
			}

			costPrice := product.AverageCost
			if err := product.ApplySale(qty); err != nil {
				return err
			}
			if err := tx.Save(product).Error; err != nil {
				return err
			}

			itemTotal := qty.Mul(item.SalePrice)
			itemProfit := item.SalePrice.Sub(costPrice).Mul(qty)
			totalAmount = totalAmount.Add(itemTotal)
			totalProfit = totalProfit.Add(itemProfit)
			sale.Items = append(sale.Items, models.SaleItem{
				ProductName: item.ProductName,
				Quantity:    qty,
				SalePrice:   item.SalePrice,
				CostPrice:   costPrice,
				ItemTotal:   itemTotal,
				ItemProfit:  itemProfit,
			})
		}

		sale.TotalAmount = totalAmount
		sale.TotalProfit = totalProfit
		return tx.Create(&sale).Error
	})
	if err != nil {
		config.LogError(logger, "saleWorkflow.go", "PostSale", "posting transaction", input, err)
		return nil, asDomainOrCommitError(err)
	}

	return &sale, nil
}
