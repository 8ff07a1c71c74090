// Package model 定义数据模型
package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名称迁移表结构，key 为空时迁移全部
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Note":
		return db.AutoMigrate(&Note{})

	case "":
		return db.AutoMigrate(&Note{})
	}
	return nil
}
