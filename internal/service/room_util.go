package service

import "strings"

// 房间码不区分大小写，在进入注册表之前统一为大写
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
