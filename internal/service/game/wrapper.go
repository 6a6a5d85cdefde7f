package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// 请求类型
const (
	REQ_CREATE_OR_JOIN_ROOM = "create-or-join-room"
	REQ_START_ROUND         = "start-round"
	REQ_ADVANCE_TURN        = "advance-turn"
	REQ_REVEAL_WORDS        = "reveal-words"
)

const (
	MAX_ROOM_CODE_LEN   = 32
	MAX_PLAYER_NAME_LEN = 24
)

type RequestWrapper struct {
	ReqType string          `json:"request_type"`
	Data    json.RawMessage `json:"data"`
}

type CreateOrJoinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

func (req *CreateOrJoinRoomRequest) Validate() error {
	code := strings.TrimSpace(req.RoomCode)
	if code == "" {
		return fmt.Errorf("%w: room code is required", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(code) > MAX_ROOM_CODE_LEN {
		return fmt.Errorf("%w: room code is too long", ErrInvalidRequest)
	}

	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		return fmt.Errorf("%w: please enter your name", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(name) > MAX_PLAYER_NAME_LEN {
		return fmt.Errorf("%w: name is too long", ErrInvalidRequest)
	}

	return nil
}

type StartRoundRequest struct {
	RoomCode string         `json:"roomCode"`
	Settings *SettingsPatch `json:"settings,omitempty"`
}

type AdvanceTurnRequest struct {
	RoomCode string `json:"roomCode"`
}

type RevealWordsRequest struct {
	RoomCode string `json:"roomCode"`
}

func unwrap[T any](wrapper RequestWrapper, reqType string) *T {
	if wrapper.ReqType != reqType {
		return nil
	}

	var req T

	// 允许不带 data 的请求，例如只依赖连接所在房间的 advance-turn
	if len(wrapper.Data) == 0 || string(wrapper.Data) == "null" {
		return &req
	}

	if err := json.Unmarshal(wrapper.Data, &req); err != nil {
		zap.L().Error(
			"Failed to unwrap request",
			zap.String("request_type", reqType),
			zap.Error(err),
		)
		return nil
	}

	return &req
}

func TryUnwrapCreateOrJoinRoomRequest(wrapper RequestWrapper) *CreateOrJoinRoomRequest {
	return unwrap[CreateOrJoinRoomRequest](wrapper, REQ_CREATE_OR_JOIN_ROOM)
}

func TryUnwrapStartRoundRequest(wrapper RequestWrapper) *StartRoundRequest {
	return unwrap[StartRoundRequest](wrapper, REQ_START_ROUND)
}

func TryUnwrapAdvanceTurnRequest(wrapper RequestWrapper) *AdvanceTurnRequest {
	return unwrap[AdvanceTurnRequest](wrapper, REQ_ADVANCE_TURN)
}

func TryUnwrapRevealWordsRequest(wrapper RequestWrapper) *RevealWordsRequest {
	return unwrap[RevealWordsRequest](wrapper, REQ_REVEAL_WORDS)
}

// 响应类型
const (
	RESP_ROSTER_UPDATED  = "roster-updated"
	RESP_ROUND_STARTED   = "round-started"
	RESP_SECRET_ASSIGNED = "secret-assigned"
	RESP_TURN_CHANGED    = "turn-changed"
	RESP_WORDS_REVEALED  = "words-revealed"
	RESP_ACTION_REJECTED = "action-rejected"
)

type ResponseWrapper struct {
	RespType string `json:"response_type"`
	Data     any    `json:"data"`
	ErrMsg   string `json:"error_message,omitempty"`
}

// 名单中不带房主标记
type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// 按接收者个性化：IsHost 只描述接收者自己
type RosterUpdatedResponse struct {
	RoomCode string        `json:"roomCode"`
	PlayerID string        `json:"playerId"`
	Players  []RosterEntry `json:"players"`
	IsHost   bool          `json:"isHost"`
}

type SecretAssignedResponse struct {
	Word        string `json:"word"`
	IsImpostor  bool   `json:"isImpostor"`
	IsBlankCard bool   `json:"isBlankCard"`
}

type TurnEntry struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type RoundStartedResponse struct {
	PlayerCount     int         `json:"playerCount"`
	TurnOrder       []TurnEntry `json:"turnOrder"`
	FirstPlayerID   string      `json:"firstPlayerId"`
	FirstPlayerName string      `json:"firstPlayerName"`
}

type TurnChangedResponse struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Index      int    `json:"index"`
}

type WordsRevealedResponse struct {
	CommonWord   string `json:"commonWord"`
	ImpostorWord string `json:"impostorWord"`
	BlankCard    bool   `json:"blankCard"`
	ImpostorName string `json:"impostorName"`
}

type ActionRejectedResponse struct {
	Reason string `json:"reason"`
}

func WrapResponse(respType string, data any) ResponseWrapper {
	return ResponseWrapper{
		RespType: respType,
		Data:     data,
	}
}

func WrapErrResponse(errMsg string) ResponseWrapper {
	return ResponseWrapper{
		RespType: RESP_ACTION_REJECTED,
		Data:     ActionRejectedResponse{Reason: errMsg},
		ErrMsg:   errMsg,
	}
}
