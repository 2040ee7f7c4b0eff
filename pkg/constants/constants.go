package constants

import "time"

const (
	CHANNEL_SIZE               = 100 // 通道大小
	REFRESH_TOKEN_EXPIRY_HOURS = 168 // Refresh Token 有效期（小时），168小时 = 7天
	NOTIFICATION_PAGE_SIZE     = 50  // 通知列表默认条数
	GROUP_VIEW_CACHE_TTL       = 30 * time.Minute
	MESSAGE_LIST_CACHE_TTL     = 10 * time.Minute
	DEFAULT_QUIET_HOURS_START  = "22:00"
	DEFAULT_QUIET_HOURS_END    = "07:00"
	ROLE_USER                  = "user"
	ROLE_ADMIN                 = "admin"
)

// 缓存 key 前缀
const (
	GROUP_VIEW_KEY_PREFIX = "group_view_"
	USER_TOKEN_KEY_PREFIX = "user_token:"
	// message_list_<userId>_<peerId|all>
	MESSAGE_LIST_KEY_PREFIX       = "message_list_"
	GROUP_MESSAGE_LIST_KEY_PREFIX = "group_message_list_"
)
