// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"
	"time"

	"flatshare_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByAccount 按用户名或邮箱查找用户（登录）
	FindByAccount(account string) (*model.UserInfo, error)
	// ExistsByUsernameOrEmail 检查用户名或邮箱是否已被占用
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
}

// ListingRepository 房源数据访问接口
type ListingRepository interface {
	FindByUuid(uuid string) (*model.Listing, error)
	Create(listing *model.Listing) error
}

// GroupRepository 小组数据访问接口
type GroupRepository interface {
	// FindByUuid 根据 UUID 查找小组
	FindByUuid(uuid string) (*model.GroupInfo, error)
	// FindByUuidForUpdate 加行锁读取小组，只能在事务中调用
	FindByUuidForUpdate(uuid string) (*model.GroupInfo, error)
	// FindByListingId 查找某房源下的所有小组
	FindByListingId(listingId string) ([]model.GroupInfo, error)
	// FindAll 查找所有未解散的小组
	FindAll() ([]model.GroupInfo, error)
	// FindByUuids 批量根据 UUID 查找小组
	FindByUuids(uuids []string) ([]model.GroupInfo, error)
	// Create 创建新小组
	Create(group *model.GroupInfo) error
	// UpdateInfo 更新名称、描述等基础字段
	UpdateInfo(uuid string, updates map[string]interface{}) error
	// UpdatePreference 覆盖写入生活习惯文档
	UpdatePreference(uuid string, pref *model.LifestylePreference) error
	// IncrementMemberCount 正式成员数 +1
	IncrementMemberCount(uuid string) error
	// DecrementMemberCount 正式成员数 -1
	DecrementMemberCount(uuid string) error
	// SoftDelete 软删除小组
	SoftDelete(uuid string) error
}

// ==================== 复合结构 ====================

// GroupMemberWithUserInfo 成员关系 + 用户展示信息
// 用户记录缺失时展示字段为 nil
type GroupMemberWithUserInfo struct {
	GroupUuid string
	UserUuid  string
	Status    int8
	Role      int8
	JoinedAt  time.Time
	Username  *string
	Name      *string
	Surname   *string
}

// GroupMemberRepository 小组成员数据访问接口
type GroupMemberRepository interface {
	// FindByGroupAndUser 查找 (小组, 用户) 唯一的成员关系
	FindByGroupAndUser(groupUuid, userUuid string) (*model.GroupMember, error)
	// FindByGroupUuid 查找小组所有成员关系
	FindByGroupUuid(groupUuid string) ([]model.GroupMember, error)
	// FindByUserUuid 查找用户参与的所有成员关系
	FindByUserUuid(userUuid string) ([]model.GroupMember, error)
	// FindMembersWithUserInfo 按加入顺序查询成员及用户资料
	FindMembersWithUserInfo(groupUuid string) ([]GroupMemberWithUserInfo, error)
	// FindMembersWithUserInfoByGroupUuids 批量版本，用于列表组装
	FindMembersWithUserInfoByGroupUuids(groupUuids []string) ([]GroupMemberWithUserInfo, error)
	// Create 添加成员关系，重复时返回 CodeConflict
	Create(member *model.GroupMember) error
	// UpdateStatus 更新成员状态
	UpdateStatus(groupUuid, userUuid string, status int8) error
	// Delete 物理删除成员关系
	Delete(groupUuid, userUuid string) error
	// DeleteByGroupUuid 删除小组所有成员关系
	DeleteByGroupUuid(groupUuid string) error
}

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// CreateBatch 批量写入通知
	CreateBatch(notifications []model.Notification) error
	// FindByUserId 按时间倒序查询用户通知
	FindByUserId(userId string, limit int) ([]model.Notification, error)
	// MarkRead 标记已读，记录不存在或不属于该用户时返回 CodeNotFound
	MarkRead(uuid int64, userId string) error
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 写入一条消息
	Create(message *model.Message) error
	// FindDirectByUser 按时间正序查询私信，peerId 为空时返回全部会话
	FindDirectByUser(userId, peerId string) ([]model.Message, error)
	// FindByGroupUuid 按时间正序查询小组消息
	FindByGroupUuid(groupUuid string) ([]model.Message, error)
}

// ==================== Repository 聚合 ====================

// TxFunc 事务执行器，默认由 gorm 提供
type TxFunc func(fn func(txRepos *Repositories) error) error

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db           *gorm.DB
	tx           TxFunc
	User         UserRepository
	Listing      ListingRepository
	Group        GroupRepository
	GroupMember  GroupMemberRepository
	Notification NotificationRepository
	Message      MessageRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		User:         NewUserRepository(db),
		Listing:      NewListingRepository(db),
		Group:        NewGroupRepository(db),
		GroupMember:  NewGroupMemberRepository(db),
		Notification: NewNotificationRepository(db),
		Message:      NewMessageRepository(db),
	}
}

// WithTx 替换事务执行器（内存实现、测试替身使用）
func (r *Repositories) WithTx(tx TxFunc) *Repositories {
	r.tx = tx
	return r
}

// WithContext 返回绑定请求上下文的 Repositories，数据库调用继承 ctx 的截止时间
func (r *Repositories) WithContext(ctx context.Context) *Repositories {
	if r.db == nil {
		return r
	}
	return NewRepositories(r.db.WithContext(ctx))
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.tx != nil {
		return r.tx(fn)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
