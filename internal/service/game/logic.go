package game

import (
	"go.uber.org/zap"
)

// 房间分为两个阶段：
// 1. 等待阶段（waiting）：玩家加入房间，等待房主开局
// 2. 进行阶段（playing）：词语已分配，玩家按顺序轮流发言
// 房间在多局之间保留，房主可以随时开始新的一局

// 加入房间，房间内的第一位玩家成为房主
// 进行中的一局不受影响：新玩家没有词语，也不在本局的发言顺序中
func (r *Room) Join(player Player) {
	if _, existing := r.findPlayer(player.ID); existing != nil {
		zap.L().Warn(
			"玩家已在房间中，忽略重复加入",
			zap.String("room_code", r.Code),
			zap.String("player_id", player.ID),
		)
		return
	}

	joined := player
	joined.IsHost = len(r.players) == 0

	r.players = append(r.players, &joined)

	zap.L().Info(
		"玩家加入房间",
		zap.String("room_code", r.Code),
		zap.String("player_id", joined.ID),
		zap.String("player_name", joined.Name),
		zap.Bool("is_host", joined.IsHost),
		zap.String("phase", string(r.Phase)),
	)

	r.broadcastRoster()
}

// 开始新的一局，未满足条件时不修改任何状态
func (r *Room) StartRound(playerID string, patch *SettingsPatch) error {
	_, requester := r.findPlayer(playerID)
	if requester == nil {
		return ErrInvalidAction
	}

	if !requester.IsHost {
		return ErrNotHost
	}

	if len(r.players) < MIN_PLAYERS {
		return ErrInsufficientPlayers
	}

	r.Settings = r.Settings.Merge(patch)

	pair := r.words.Draw(r.rng)

	impostor := r.players[r.rng.IntN(len(r.players))]

	// 每局只判定一次，且只作用于卧底本人
	blankCard := r.Settings.BlankCardMode && r.rng.Float64() < BLANK_CARD_PROBABILITY

	// 整体替换上一局的分配
	r.assignments = make(map[string]Assignment, len(r.players))
	for _, p := range r.players {
		if p.ID != impostor.ID {
			r.assignments[p.ID] = Assignment{Word: pair.Common}
			continue
		}

		if blankCard {
			r.assignments[p.ID] = Assignment{Word: "", IsImpostor: true, IsBlankCard: true}
		} else {
			r.assignments[p.ID] = Assignment{Word: pair.Impostor, IsImpostor: true}
		}
	}

	r.round = &roundInfo{
		pair:         pair,
		impostorID:   impostor.ID,
		impostorName: impostor.Name,
		blankCard:    blankCard,
	}

	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}

	r.turns = NewTurnSequence(ids, r.rng)
	r.Phase = PHASE_PLAYING

	zap.L().Info(
		"新一局开始",
		zap.String("room_code", r.Code),
		zap.Int("player_count", len(r.players)),
		zap.Bool("blank_card_mode", r.Settings.BlankCardMode),
	)
	zap.L().Debug(
		"本局词语",
		zap.String("room_code", r.Code),
		zap.String("common", pair.Common),
		zap.String("impostor", pair.Impostor),
		zap.Bool("blank_card", blankCard),
	)

	// 词语只通过单播发送给本人
	for _, p := range r.players {
		a := r.assignments[p.ID]
		r.UnicastResp(p.ID, WrapResponse(
			RESP_SECRET_ASSIGNED,
			SecretAssignedResponse{
				Word:        a.Word,
				IsImpostor:  a.IsImpostor,
				IsBlankCard: a.IsBlankCard,
			},
		))
	}

	order := make([]TurnEntry, 0, len(r.turns.Order))
	for _, id := range r.turns.Order {
		_, p := r.findPlayer(id)
		order = append(order, TurnEntry{PlayerID: p.ID, PlayerName: p.Name})
	}

	r.BroadcastResp(WrapResponse(
		RESP_ROUND_STARTED,
		RoundStartedResponse{
			PlayerCount:     len(order),
			TurnOrder:       order,
			FirstPlayerID:   order[0].PlayerID,
			FirstPlayerName: order[0].PlayerName,
		},
	))

	return nil
}

// 当前发言者说完，轮到下一位
// 不在进行阶段时直接忽略：已结束的一局中，客户端可能仍然显示着按钮
func (r *Room) AdvanceTurn(playerID string) error {
	if _, p := r.findPlayer(playerID); p == nil {
		return ErrInvalidAction
	}

	if r.Phase != PHASE_PLAYING || !r.turns.Active() {
		return ErrInvalidAction
	}

	r.turns.Advance()
	r.broadcastTurn()

	return nil
}

// 玩家断开连接，返回房间是否已经为空
func (r *Room) Leave(playerID string) bool {
	idx, leaving := r.findPlayer(playerID)
	if leaving == nil {
		zap.L().Warn(
			"玩家不存在，无法离开",
			zap.String("room_code", r.Code),
			zap.String("player_id", playerID),
		)
		return r.Empty()
	}

	r.players = append(r.players[:idx], r.players[idx+1:]...)
	delete(r.assignments, playerID)

	zap.L().Info(
		"玩家离开房间",
		zap.String("room_code", r.Code),
		zap.String("player_id", leaving.ID),
		zap.String("player_name", leaving.Name),
		zap.Int("remaining", len(r.players)),
	)

	// 空房间不保留上一局的任何信息
	if r.Empty() {
		r.reset()
		return true
	}

	// 按加入顺序，最早加入的剩余玩家接任房主
	if leaving.IsHost {
		r.players[0].IsHost = true

		zap.L().Info(
			"房主已转移",
			zap.String("room_code", r.Code),
			zap.String("new_host_id", r.players[0].ID),
		)
	}

	if r.Phase == PHASE_PLAYING && r.turns.Remove(playerID) && r.turns.Active() {
		r.broadcastTurn()
	}

	r.broadcastRoster()

	return false
}

// 房主揭晓本局词语和卧底，不修改状态
func (r *Room) Reveal(playerID string) error {
	_, requester := r.findPlayer(playerID)
	if requester == nil {
		return ErrInvalidAction
	}

	if !requester.IsHost {
		return ErrNotHost
	}

	if r.Phase != PHASE_PLAYING || r.round == nil {
		return ErrInvalidAction
	}

	impostorWord := r.round.pair.Impostor
	if r.round.blankCard {
		impostorWord = BLANK_CARD_INDICATOR
	}

	zap.L().Info(
		"揭晓本局词语",
		zap.String("room_code", r.Code),
		zap.String("impostor_id", r.round.impostorID),
	)

	r.BroadcastResp(WrapResponse(
		RESP_WORDS_REVEALED,
		WordsRevealedResponse{
			CommonWord:   r.round.pair.Common,
			ImpostorWord: impostorWord,
			BlankCard:    r.round.blankCard,
			ImpostorName: r.round.impostorName,
		},
	))

	return nil
}

func (r *Room) broadcastTurn() {
	id, ok := r.turns.Current()
	if !ok {
		return
	}

	_, p := r.findPlayer(id)
	if p == nil {
		zap.L().Error(
			"发言顺序中的玩家不在房间内",
			zap.String("room_code", r.Code),
			zap.String("player_id", id),
		)
		return
	}

	r.BroadcastResp(WrapResponse(
		RESP_TURN_CHANGED,
		TurnChangedResponse{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Index:      r.turns.Index,
		},
	))
}

func (r *Room) reset() {
	r.Phase = PHASE_WAITING
	r.Settings = Settings{}
	r.assignments = make(map[string]Assignment)
	r.round = nil
	r.turns.Reset()
}

// 每位成员收到完整名单，但只知道自己是否是房主
func (r *Room) broadcastRoster() {
	players := make([]RosterEntry, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, RosterEntry{ID: p.ID, Name: p.Name})
	}

	for _, p := range r.players {
		r.send(p, WrapResponse(
			RESP_ROSTER_UPDATED,
			RosterUpdatedResponse{
				RoomCode: r.Code,
				PlayerID: p.ID,
				Players:  players,
				IsHost:   p.IsHost,
			},
		))
	}
}
