// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupMemberRepository 接口，处理小组成员相关的数据库操作
package repository

import (
	"flatshare_server/internal/model"

	"gorm.io/gorm"
)

// groupMemberRepository GroupMemberRepository 接口的实现
type groupMemberRepository struct {
	db *gorm.DB
}

// NewGroupMemberRepository 创建 GroupMemberRepository 实例
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// FindByGroupAndUser 根据小组和用户查找成员关系
func (r *groupMemberRepository) FindByGroupAndUser(groupUuid, userUuid string) (*model.GroupMember, error) {
	var member model.GroupMember
	if err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).First(&member).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询成员 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return &member, nil
}

// FindByGroupUuid 根据小组UUID查找所有成员
func (r *groupMemberRepository) FindByGroupUuid(groupUuid string) ([]model.GroupMember, error) {
	var members []model.GroupMember
	if err := r.db.Where("group_uuid = ?", groupUuid).Order("created_at, id").Find(&members).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询小组成员 group_uuid=%s", groupUuid)
	}
	return members, nil
}

// FindByUserUuid 根据用户UUID查找参与的所有小组
func (r *groupMemberRepository) FindByUserUuid(userUuid string) ([]model.GroupMember, error) {
	var members []model.GroupMember
	if err := r.db.Where("user_uuid = ?", userUuid).Order("created_at, id").Find(&members).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询用户所在小组 user_uuid=%s", userUuid)
	}
	return members, nil
}

// memberWithUserInfoQuery LEFT JOIN user_info，用户被删除时展示字段为 NULL
func (r *groupMemberRepository) memberWithUserInfoQuery() *gorm.DB {
	return r.db.Table("group_member").
		Select("group_member.group_uuid, group_member.user_uuid, group_member.status, group_member.role, " +
			"group_member.created_at AS joined_at, user_info.username, user_info.name, user_info.surname").
		Joins("LEFT JOIN user_info ON group_member.user_uuid = user_info.uuid AND user_info.deleted_at IS NULL").
		Order("group_member.created_at, group_member.id")
}

// FindMembersWithUserInfo 查询小组成员详细信息，按加入顺序
func (r *groupMemberRepository) FindMembersWithUserInfo(groupUuid string) ([]GroupMemberWithUserInfo, error) {
	var members []GroupMemberWithUserInfo
	if err := r.memberWithUserInfoQuery().
		Where("group_member.group_uuid = ?", groupUuid).
		Scan(&members).Error; err != nil {
		return nil, WrapDBErrorf(err, "查询成员详情 group_uuid=%s", groupUuid)
	}
	return members, nil
}

// FindMembersWithUserInfoByGroupUuids 一次查询多个小组的成员
func (r *groupMemberRepository) FindMembersWithUserInfoByGroupUuids(groupUuids []string) ([]GroupMemberWithUserInfo, error) {
	var members []GroupMemberWithUserInfo
	if len(groupUuids) == 0 {
		return members, nil
	}
	if err := r.memberWithUserInfoQuery().
		Where("group_member.group_uuid IN ?", groupUuids).
		Scan(&members).Error; err != nil {
		return nil, WrapDBError(err, "批量查询成员详情")
	}
	return members, nil
}

// Create 添加成员，(group_uuid, user_uuid) 唯一索引冲突时返回 CodeConflict
func (r *groupMemberRepository) Create(member *model.GroupMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return WrapDBErrorf(err, "创建成员 group_uuid=%s user_uuid=%s", member.GroupUuid, member.UserUuid)
	}
	return nil
}

// UpdateStatus 更新成员状态
func (r *groupMemberRepository) UpdateStatus(groupUuid, userUuid string, status int8) error {
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Update("status", status).Error; err != nil {
		return WrapDBErrorf(err, "更新成员状态 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return nil
}

// Delete 物理删除单个成员关系
func (r *groupMemberRepository) Delete(groupUuid, userUuid string) error {
	if err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).Delete(&model.GroupMember{}).Error; err != nil {
		return WrapDBErrorf(err, "删除成员 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return nil
}

// DeleteByGroupUuid 删除小组的所有成员（解散）
func (r *groupMemberRepository) DeleteByGroupUuid(groupUuid string) error {
	if err := r.db.Where("group_uuid = ?", groupUuid).Delete(&model.GroupMember{}).Error; err != nil {
		return WrapDBErrorf(err, "删除小组所有成员 group_uuid=%s", groupUuid)
	}
	return nil
}
