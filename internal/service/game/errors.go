package game

import "errors"

var (
	ErrInsufficientPlayers = errors.New("need at least 3 players to start")
	ErrRoomNotFound        = errors.New("room not found")
	ErrNotHost             = errors.New("only the host can do that")
	ErrInvalidRequest      = errors.New("invalid request")

	// 正常的界面竞态也会触发，不需要告知客户端
	ErrInvalidAction = errors.New("invalid action")
)

// 是否需要把错误回报给发起请求的玩家
func IsReportable(err error) bool {
	if err == nil {
		return false
	}

	return !errors.Is(err, ErrInvalidAction)
}
