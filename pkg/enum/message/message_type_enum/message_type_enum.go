// Package message_type_enum 定义消息类型
package message_type_enum

const (
	DIRECT = int8(0) // 私信，receive_id 为用户 UUID
	GROUP  = int8(1) // 小组消息，receive_id 为小组 UUID
)

// Name 返回类型在接口中的文本表示
func Name(t int8) string {
	switch t {
	case DIRECT:
		return "direct"
	case GROUP:
		return "group"
	default:
		return "unknown"
	}
}
