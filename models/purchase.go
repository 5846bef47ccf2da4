package models

import (
	"context"
	"errors"
	"time"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase is an immutable stock-in record. Once committed it is never
// updated; corrections happen through returns.
type Purchase struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Supplier    string          `gorm:"size:100" json:"supplier"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Items       []PurchaseItem  `gorm:"foreignKey:PurchaseId" json:"items"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type PurchaseItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	PurchaseId  int             `gorm:"index;not null" json:"purchase_id"`
	ProductName string          `gorm:"size:100;not null" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	ItemTotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"item_total"`
}

type NewPurchase struct {
	Supplier string            `json:"supplier"`
	Date     time.Time         `json:"date" binding:"required"`
	Items    []NewPurchaseItem `json:"items" binding:"required"`
}

type NewPurchaseItem struct {
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// Validate rejects the whole payload before any write: the transaction is
// all-or-nothing, so a single bad line fails the entire purchase.
func (in *NewPurchase) Validate() error {
	if len(in.Items) == 0 {
		return utils.NewValidationError("purchase must contain at least one item")
	}
	for i := range in.Items {
		item := &in.Items[i]
		item.ProductName = utils.NormalizeName(item.ProductName)
		if item.ProductName == "" {
			return utils.NewValidationError("item %d: product name is required", i+1)
		}
		if item.Quantity <= 0 {
			return utils.NewValidationError("item %d (%s): quantity must be a positive integer", i+1, item.ProductName)
		}
		if !item.UnitPrice.IsPositive() {
			return utils.NewValidationError("item %d (%s): unit price must be positive", i+1, item.ProductName)
		}
	}
	return nil
}

func GetPurchases(ctx context.Context) ([]Purchase, error) {
	db := config.GetDB()
	var purchases []Purchase
	err := db.WithContext(ctx).Preload("Items").Order("date DESC, id DESC").Find(&purchases).Error
	return purchases, err
}

func GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	db := config.GetDB()
	var purchase Purchase
	err := db.WithContext(ctx).Preload("Items").First(&purchase, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrPurchaseNotFound
		}
		return nil, err
	}
	return &purchase, nil
}
