package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名执行迁移；key 为空时迁移全部模型
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "StoreRecord":
		return db.AutoMigrate(StoreRecord{})

	case "StoreCursor":
		return db.AutoMigrate(StoreCursor{})

	case "History":
		return db.AutoMigrate(History{})

	case "":
		return db.AutoMigrate(StoreRecord{}, StoreCursor{}, History{})
	}
	return nil
}
