// Package model 定义数据库实体模型
package model

import (
	"flatshare_server/pkg/constants"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo 用户信息模型，对应 user_info 表
type UserInfo struct {
	gorm.Model

	// Uuid 用户唯一标识，格式：U + yyMMdd + 11位随机字符
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	Username string `gorm:"column:username;uniqueIndex;type:varchar(50);not null;comment:用户名"`
	Email    string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:邮箱"`
	Name     string `gorm:"column:name;type:varchar(50);comment:名"`
	Surname  string `gorm:"column:surname;type:varchar(50);comment:姓"`

	// Password bcrypt 哈希后的密码
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// IsAdmin 0=普通用户, 1=管理员
	IsAdmin int8 `gorm:"column:is_admin;not null;default:0;comment:是否是管理员，0.不是，1.是"`

	// Status 0=正常, 1=禁用
	Status int8 `gorm:"column:status;index;not null;default:0;comment:状态，0.正常，1.禁用"`

	// RawPassword 明文密码，不入库，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：将 RawPassword 加密后写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = "" // 清空明文，防止泄露
	}
	return nil
}

// CheckPassword 校验明文密码
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// Role 返回 JWT 中使用的角色名
func (u *UserInfo) Role() string {
	if u.IsAdmin == 1 {
		return constants.ROLE_ADMIN
	}
	return constants.ROLE_USER
}
