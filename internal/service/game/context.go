package game

import (
	"go.uber.org/zap"
)

// Room 是单个房间的全部状态，只能由所属的房间协程修改
type Room struct {
	Code     string
	Phase    Phase
	Settings Settings

	// 按加入顺序排列
	players     []*Player
	assignments map[string]Assignment
	round       *roundInfo
	turns       TurnSequence

	words WordSource
	rng   Random
}

func NewRoom(code string, words WordSource, rng Random) *Room {
	return &Room{
		Code:        code,
		Phase:       PHASE_WAITING,
		players:     make([]*Player, 0, 8),
		assignments: make(map[string]Assignment),
		words:       words,
		rng:         rng,
	}
}

func (r *Room) findPlayer(playerID string) (int, *Player) {
	for i, p := range r.players {
		if p.ID == playerID {
			return i, p
		}
	}

	return -1, nil
}

func (r *Room) Empty() bool {
	return len(r.players) == 0
}

func (r *Room) PlayerCount() int {
	return len(r.players)
}

// 按加入顺序返回玩家副本
func (r *Room) Players() []Player {
	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, Player{
			ID:     p.ID,
			Name:   p.Name,
			IsHost: p.IsHost,
		})
	}

	return players
}

func (r *Room) Assignment(playerID string) (Assignment, bool) {
	a, ok := r.assignments[playerID]
	return a, ok
}

func (r *Room) TurnOrder() []string {
	order := make([]string, len(r.turns.Order))
	copy(order, r.turns.Order)

	return order
}

func (r *Room) CurrentSpeaker() (string, bool) {
	return r.turns.Current()
}

func (r *Room) Snapshot() RoomSnapshot {
	return RoomSnapshot{
		Code:     r.Code,
		Phase:    r.Phase,
		Players:  r.Players(),
		Settings: r.Settings,
	}
}

func (r *Room) BroadcastResp(resp ResponseWrapper) {
	for _, p := range r.players {
		r.send(p, resp)
	}
}

func (r *Room) UnicastResp(playerID string, resp ResponseWrapper) {
	_, player := r.findPlayer(playerID)
	if player == nil {
		zap.L().Warn(
			"无法找到玩家进行单播响应",
			zap.String("room_code", r.Code),
			zap.String("player_id", playerID),
		)
		return
	}

	r.send(player, resp)
}

func (r *Room) send(p *Player, resp ResponseWrapper) {
	select {
	case p.RespCh <- resp:
		zap.L().Debug(
			"发送响应成功",
			zap.String("room_code", r.Code),
			zap.String("player_id", p.ID),
			zap.String("response_type", resp.RespType),
		)
	default:
		zap.L().Warn(
			"发送响应失败：玩家响应通道已满",
			zap.String("room_code", r.Code),
			zap.String("player_id", p.ID),
			zap.String("response_type", resp.RespType),
		)
	}
}
