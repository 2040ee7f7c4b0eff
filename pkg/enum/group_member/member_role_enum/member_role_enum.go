package member_role_enum

const (
	MEMBER = int8(1) // 普通成员
	OWNER  = int8(3) // 群主
)
