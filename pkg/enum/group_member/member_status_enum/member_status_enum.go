// Package member_status_enum 定义群成员状态
package member_status_enum

const (
	PENDING = int8(0) // 申请中，等待群主审核
	ACTIVE  = int8(1) // 正式成员
)

// Name 返回状态在接口中的文本表示
func Name(status int8) string {
	switch status {
	case PENDING:
		return "pending"
	case ACTIVE:
		return "active"
	default:
		return "unknown"
	}
}
