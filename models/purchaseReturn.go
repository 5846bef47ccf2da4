package models

import (
	"context"
	"time"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
)

// PurchaseReturn reverses part of a prior purchase back to the supplier.
// Unit prices are copied from the original purchase lines; the record is
// immutable once committed.
type PurchaseReturn struct {
	ID          int                  `gorm:"primary_key" json:"id"`
	PurchaseId  int                  `gorm:"index;not null" json:"purchase_id"`
	Reason      string               `gorm:"type:text;not null" json:"reason"`
	Date        time.Time            `gorm:"index;not null" json:"date"`
	TotalAmount decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Items       []PurchaseReturnItem `gorm:"foreignKey:ReturnId" json:"items"`
	CreatedAt   time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

type PurchaseReturnItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	ReturnId    int             `gorm:"index;not null" json:"return_id"`
	ProductName string          `gorm:"size:100;not null" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	ItemTotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"item_total"`
}

type NewReturn struct {
	PurchaseId int             `json:"purchase_id" binding:"required"`
	Reason     string          `json:"reason" binding:"required"`
	Date       time.Time       `json:"date" binding:"required"`
	Items      []NewReturnItem `json:"items" binding:"required"`
}

type NewReturnItem struct {
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required"`
}

func (in *NewReturn) Validate() error {
	if in.PurchaseId <= 0 {
		return utils.NewValidationError("purchase id is required")
	}
	if utils.NormalizeName(in.Reason) == "" {
		return utils.NewValidationError("return reason is required")
	}
	if len(in.Items) == 0 {
		return utils.NewValidationError("return must contain at least one item")
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
	}
	return nil
}

// ValidateAgainstPurchase bounds each return line by what the original
// purchase actually contained. Pure; the workflow calls it after resolving
// the purchase inside its transaction.
func (in *NewReturn) ValidateAgainstPurchase(purchase *Purchase) error {
	purchased := make(map[string]decimal.Decimal, len(purchase.Items))
	for _, item := range purchase.Items {
		purchased[item.ProductName] = purchased[item.ProductName].Add(item.Quantity)
	}

	// Requested quantities aggregate per product too, so duplicate lines
	// cannot slip past the bound one by one.
	requested := make(map[string]decimal.Decimal, len(in.Items))
	for _, item := range in.Items {
		if _, ok := purchased[item.ProductName]; !ok {
			return utils.NewValidationError("product %q is not part of purchase %d", item.ProductName, purchase.ID)
		}
		requested[item.ProductName] = requested[item.ProductName].Add(decimal.NewFromInt(item.Quantity))
	}

	for name, total := range requested {
		if total.GreaterThan(purchased[name]) {
			return utils.NewValidationError("cannot return %s of %q: only %s were purchased",
				total, name, purchased[name])
		}
	}
	return nil
}

// PurchasedUnitPrice resolves the original unit price of a product within a
// purchase, for copying onto the return line.
func PurchasedUnitPrice(purchase *Purchase, productName string) (decimal.Decimal, bool) {
	for _, item := range purchase.Items {
		if item.ProductName == productName {
			return item.UnitPrice, true
		}
	}
	return decimal.Decimal{}, false
}

func GetReturns(ctx context.Context) ([]PurchaseReturn, error) {
	db := config.GetDB()
	var returns []PurchaseReturn
	err := db.WithContext(ctx).Preload("Items").Order("date DESC, id DESC").Find(&returns).Error
	return returns, err
}
