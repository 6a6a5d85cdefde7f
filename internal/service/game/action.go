package game

// RoomAction 是投递到房间协程的操作，每次只设置其中一个字段
type RoomAction struct {
	Join     *JoinAction
	Start    *StartRoundAction
	Advance  *AdvanceTurnAction
	Reveal   *RevealWordsAction
	Leave    *LeaveAction
	Snapshot *SnapshotAction
}

type JoinAction struct {
	Player Player
}

type StartRoundAction struct {
	PlayerID string
	Settings *SettingsPatch
}

type AdvanceTurnAction struct {
	PlayerID string
}

type RevealWordsAction struct {
	PlayerID string
}

type LeaveAction struct {
	PlayerID string
}

type SnapshotAction struct {
	RespCh chan RoomSnapshot
}

// 发起操作的玩家，用于回报错误
func (a RoomAction) requester() string {
	switch {
	case a.Join != nil:
		return a.Join.Player.ID
	case a.Start != nil:
		return a.Start.PlayerID
	case a.Advance != nil:
		return a.Advance.PlayerID
	case a.Reveal != nil:
		return a.Reveal.PlayerID
	case a.Leave != nil:
		return a.Leave.PlayerID
	}

	return ""
}

func (a RoomAction) Name() string {
	switch {
	case a.Join != nil:
		return "Join"
	case a.Start != nil:
		return "StartRound"
	case a.Advance != nil:
		return "AdvanceTurn"
	case a.Reveal != nil:
		return "RevealWords"
	case a.Leave != nil:
		return "Leave"
	case a.Snapshot != nil:
		return "Snapshot"
	}

	return "Unknown"
}
