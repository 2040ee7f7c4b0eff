// Package event_type_enum 定义群组事件类型
// 事件由群组服务发布，通知服务消费后生成站内通知
package event_type_enum

const (
	JOIN_REQUESTED      = "join_requested"      // 有人申请加入群组
	MEMBER_APPROVED     = "member_approved"     // 入群申请已通过
	MEMBER_REJECTED     = "member_rejected"     // 入群申请被拒绝
	MEMBER_REMOVED      = "member_removed"      // 被移出群组
	MEMBER_LEFT         = "member_left"         // 成员主动退出
	PREFERENCES_UPDATED = "preferences_updated" // 合租偏好被修改
	READY_TO_SIGN       = "ready_to_sign"       // 成员确认可以签约
	ALL_READY           = "all_ready"           // 全员确认可以签约
	GROUP_DISMISSED     = "group_dismissed"     // 群组被解散
)
