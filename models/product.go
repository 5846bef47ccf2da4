package models

import (
	"context"
	"errors"
	"time"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Product is the inventory ledger: one row per distinct product name.
// Quantity and AverageCost are mutated only by the posting workflows;
// TotalCost is derived and recomputed on every write, never drifted.
type Product struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:100;not null;uniqueIndex" json:"name" binding:"required"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	AverageCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"average_cost"`
	TotalCost   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cost"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ApplyPurchase blends qty units at unitPrice into the weighted-average cost.
// For a fresh product (zero quantity) the average collapses to unitPrice.
func (p *Product) ApplyPurchase(qty, unitPrice decimal.Decimal) {
	newQty := p.Quantity.Add(qty)
	if newQty.IsZero() {
		return
	}
	newValue := p.Quantity.Mul(p.AverageCost).Add(qty.Mul(unitPrice))
	p.AverageCost = newValue.Div(newQty)
	p.Quantity = newQty
	p.TotalCost = p.Quantity.Mul(p.AverageCost)
}

// ApplySale removes qty units at the current cost basis. AverageCost is not
// altered by a sale; only quantity and therefore total cost change.
func (p *Product) ApplySale(qty decimal.Decimal) error {
	if p.Quantity.LessThan(qty) {
		return &utils.InsufficientStockError{
			ProductName: p.Name,
			Requested:   qty,
			Available:   p.Quantity,
		}
	}
	p.Quantity = p.Quantity.Sub(qty)
	p.TotalCost = p.Quantity.Mul(p.AverageCost)
	return nil
}

// ApplyReturn writes qty units off the ledger at the current average cost.
// Same arithmetic as a sale: returned units leave at cost basis.
func (p *Product) ApplyReturn(qty decimal.Decimal) error {
	return p.ApplySale(qty)
}

// FindProductByName looks a product up by its trimmed name. Returns
// (nil, nil) when absent so create-or-update flows can branch.
func FindProductByName(tx *gorm.DB, name string) (*Product, error) {
	var product Product
	err := tx.Where("name = ?", utils.NormalizeName(name)).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// LockProductByName is FindProductByName with a FOR UPDATE row lock. Every
// posting workflow must read product state through this inside its
// transaction so the stock check sees committed state, not a stale snapshot.
func LockProductByName(tx *gorm.DB, name string) (*Product, error) {
	var product Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", utils.NormalizeName(name)).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func GetProducts(ctx context.Context) ([]Product, error) {
	db := config.GetDB()
	var products []Product
	err := db.WithContext(ctx).Order("name").Find(&products).Error
	return products, err
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}
