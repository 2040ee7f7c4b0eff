// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupRepository 接口，处理小组相关的数据库操作
package repository

import (
	"flatshare_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// groupRepository GroupRepository 接口的实现
type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// FindByUuid 根据 UUID 查找小组
func (r *groupRepository) FindByUuid(uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询小组 uuid=%s", uuid)
	}
	return &group, nil
}

// FindByUuidForUpdate SELECT ... FOR UPDATE
// 偏好文档的读-改-写都在持有该行锁的事务内完成
func (r *groupRepository) FindByUuidForUpdate(uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, WrapDBErrorf(err, "锁定小组 uuid=%s", uuid)
	}
	return &group, nil
}

// FindByListingId 查找房源下的所有小组，按创建顺序
func (r *groupRepository) FindByListingId(listingId string) ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	if err := r.db.Where("listing_id = ?", listingId).Order("created_at, id").Find(&groups).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询小组 listing_id=%s", listingId)
	}
	return groups, nil
}

// FindAll 查找所有未解散的小组
func (r *groupRepository) FindAll() ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	if err := r.db.Order("created_at, id").Find(&groups).Error; err != nil {
		return nil, WrapDBError(err, "查询所有小组")
	}
	return groups, nil
}

// FindByUuids 根据UUID列表批量查找小组
func (r *groupRepository) FindByUuids(uuids []string) ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	if len(uuids) == 0 {
		return groups, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Order("created_at, id").Find(&groups).Error; err != nil {
		return nil, WrapDBError(err, "批量查询小组")
	}
	return groups, nil
}

// Create 创建小组
func (r *groupRepository) Create(group *model.GroupInfo) error {
	if err := r.db.Create(group).Error; err != nil {
		return WrapDBError(err, "创建小组")
	}
	return nil
}

// UpdateInfo 按列更新，不会触碰 lifestyle_preference
func (r *groupRepository) UpdateInfo(uuid string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return WrapDBErrorf(err, "更新小组 uuid=%s", uuid)
	}
	return nil
}

// UpdatePreference 覆盖写入偏好文档
// 通过结构体 + Select 更新，使 json serializer 生效
func (r *groupRepository) UpdatePreference(uuid string, pref *model.LifestylePreference) error {
	if err := r.db.Model(&model.GroupInfo{}).
		Where("uuid = ?", uuid).
		Select("lifestyle_preference").
		Updates(&model.GroupInfo{LifestylePreference: pref}).Error; err != nil {
		return WrapDBErrorf(err, "更新小组偏好 uuid=%s", uuid)
	}
	return nil
}

// IncrementMemberCount 使用 gorm.Expr 实现原子自增
func (r *groupRepository) IncrementMemberCount(uuid string) error {
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).UpdateColumn("member_cnt", gorm.Expr("member_cnt + ?", 1)).Error; err != nil {
		return WrapDBErrorf(err, "增加成员数 uuid=%s", uuid)
	}
	return nil
}

// DecrementMemberCount 原子自减
func (r *groupRepository) DecrementMemberCount(uuid string) error {
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ? AND member_cnt > 0", uuid).UpdateColumn("member_cnt", gorm.Expr("member_cnt - ?", 1)).Error; err != nil {
		return WrapDBErrorf(err, "减少成员数 uuid=%s", uuid)
	}
	return nil
}

// SoftDelete 软删除小组（解散）
func (r *groupRepository) SoftDelete(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.GroupInfo{}).Error; err != nil {
		return WrapDBErrorf(err, "删除小组 uuid=%s", uuid)
	}
	return nil
}
