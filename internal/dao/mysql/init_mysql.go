// Package mysql 负责建立 MySQL 连接并迁移表结构
package mysql

import (
	"fmt"

	"flatshare_server/internal/config"
	"flatshare_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 建立数据库连接并执行 AutoMigrate
// TranslateError 打开后，唯一索引冲突会被翻译成 gorm.ErrDuplicatedKey
func Init(conf config.MysqlConfig) (*gorm.DB, error) {
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.User,
		conf.Password,
		conf.Host,
		conf.Port,
		conf.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	// 不会删除已有字段或数据
	err = db.AutoMigrate(
		&model.UserInfo{},
		&model.Listing{},
		&model.GroupInfo{},
		&model.GroupMember{},
		&model.Notification{},
		&model.Message{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	zap.L().Info("MySQL connected", zap.String("host", conf.Host), zap.String("database", conf.DatabaseName))
	return db, nil
}
