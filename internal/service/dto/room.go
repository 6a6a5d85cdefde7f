package dto

// GET /api/v1/rooms/{code} 的响应
type RoomSummary struct {
	Code          string          `json:"roomCode"`
	Phase         string          `json:"phase"`
	PlayerCount   int             `json:"playerCount"`
	Players       []PlayerSummary `json:"players"`
	BlankCardMode bool            `json:"blankCardMode"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Rooms  int    `json:"rooms"`
}
