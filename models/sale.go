package models

import (
	"context"
	"time"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
)

// Sale is an immutable stock-out record. CostPrice on each line is a
// snapshot of the product's average cost at transaction time and is never
// recalculated when the average later changes.
type Sale struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	TotalProfit decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_profit"`
	Items       []SaleItem      `gorm:"foreignKey:SaleId" json:"items"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type SaleItem struct {
	ID          int             `gorm:"primary_key" json:"id"`
	SaleId      int             `gorm:"index;not null" json:"sale_id"`
	ProductName string          `gorm:"size:100;not null" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sale_price"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	ItemTotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"item_total"`
	ItemProfit  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"item_profit"`
}

type NewSale struct {
	Date  time.Time     `json:"date" binding:"required"`
	Items []NewSaleItem `json:"items" binding:"required"`
}

type NewSaleItem struct {
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    int64           `json:"quantity" binding:"required"`
	SalePrice   decimal.Decimal `json:"sale_price" binding:"required"`
}

func (in *NewSale) Validate() error {
	if len(in.Items) == 0 {
		return utils.NewValidationError("sale must contain at least one item")
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
		if !item.SalePrice.IsPositive() {
			return utils.NewValidationError("item %d (%s): sale price must be positive", i+1, item.ProductName)
		}
	}
	return nil
}

func GetSales(ctx context.Context) ([]Sale, error) {
	db := config.GetDB()
	var sales []Sale
	err := db.WithContext(ctx).Preload("Items").Order("date DESC, id DESC").Find(&sales).Error
	return sales, err
}
