package repository

import (
	"flatshare_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 按 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByAccount 按用户名或邮箱查找用户
func (r *userRepository) FindByAccount(account string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.Where("username = ? OR email = ?", account, account).First(&user).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询用户 account=%s", account)
	}
	return &user, nil
}

// ExistsByUsernameOrEmail 检查用户名或邮箱是否已注册（包含软删除的记录，唯一索引仍然生效）
func (r *userRepository) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	if err := r.db.Unscoped().Model(&model.UserInfo{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err, "检查用户名/邮箱")
	}
	return count > 0, nil
}

// Create 创建用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return WrapDBError(err, "创建用户")
	}
	return nil
}
