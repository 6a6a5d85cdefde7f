package game

import (
	"go.uber.org/zap"
)

// Handle 执行一次房间操作，调用方保证同一房间的操作串行执行
// 需要告知请求者的错误会以 action-rejected 单播回去
func (r *Room) Handle(action RoomAction) error {
	var err error

	switch {
	case action.Join != nil:
		r.Join(action.Join.Player)

	case action.Start != nil:
		err = r.StartRound(action.Start.PlayerID, action.Start.Settings)

	case action.Advance != nil:
		err = r.AdvanceTurn(action.Advance.PlayerID)

	case action.Reveal != nil:
		err = r.Reveal(action.Reveal.PlayerID)

	case action.Leave != nil:
		r.Leave(action.Leave.PlayerID)

	case action.Snapshot != nil:
		select {
		case action.Snapshot.RespCh <- r.Snapshot():
		default:
			zap.L().Warn("发送房间快照失败：通道已满", zap.String("room_code", r.Code))
		}

	default:
		err = ErrInvalidAction
	}

	if err == nil {
		return nil
	}

	if IsReportable(err) {
		zap.L().Info(
			"拒绝玩家请求",
			zap.String("room_code", r.Code),
			zap.String("action", action.Name()),
			zap.String("player_id", action.requester()),
			zap.Error(err),
		)

		r.UnicastResp(action.requester(), WrapErrResponse(err.Error()))
	} else {
		zap.L().Debug(
			"忽略无效请求",
			zap.String("room_code", r.Code),
			zap.String("action", action.Name()),
			zap.String("player_id", action.requester()),
		)
	}

	return err
}
