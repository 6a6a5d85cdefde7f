package dto

// 房间摘要中的玩家信息，不包含任何词语
type PlayerSummary struct {
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}
