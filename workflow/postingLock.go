package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

const inventoryPostingLock = "posting:inventory"

// AcquireInventoryPostingLock serializes inventory posting across instances
// using MySQL advisory locks. GET_LOCK is connection-scoped, so this must be
// called on the same *gorm.DB that runs the posting transaction.
func AcquireInventoryPostingLock(tx *gorm.DB) error {
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", inventoryPostingLock).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire inventory posting lock")
	}
	return nil
}

func ReleaseInventoryPostingLock(tx *gorm.DB) {
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", inventoryPostingLock).Scan(&_ok).Error
}
