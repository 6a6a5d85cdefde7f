package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"impostor-party-be/internal/service/dto"
	"impostor-party-be/internal/service/game"

	"go.uber.org/zap"
)

var (
	ErrRoomBusy      = errors.New("room is busy, please try again")
	ErrServiceClosed = errors.New("room service is closed")
)

const DEFAULT_MAILBOX_SIZE = 64

// 房间满载时重新投递的间隔
const redeliverInterval = 10 * time.Millisecond

// RoomService 是房间注册表：房间码到房间协程的映射
// 每个房间由唯一的协程持有，所有操作通过该协程的请求通道串行执行
type RoomService struct {
	state *roomServiceState

	words       game.WordSource
	rng         game.Random
	mailboxSize int
}

type roomServiceState struct {
	mu sync.Mutex

	// 房间码到房间协程的映射，房间为空时立即移除
	rooms  map[string]*roomActor
	closed bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

type roomActor struct {
	code  string
	room  *game.Room
	reqCh chan game.RoomAction
}

func NewRoomService(words game.WordSource, rng game.Random, mailboxSize int) *RoomService {
	if mailboxSize <= 0 {
		mailboxSize = DEFAULT_MAILBOX_SIZE
	}

	return &RoomService{
		state: &roomServiceState{
			rooms:   make(map[string]*roomActor),
			closeCh: make(chan struct{}),
		},
		words:       words,
		rng:         rng,
		mailboxSize: mailboxSize,
	}
}

// Close 通知所有房间协程退出并等待其结束
func (rs *RoomService) Close() {
	rs.state.mu.Lock()
	if rs.state.closed {
		rs.state.mu.Unlock()
		return
	}

	rs.state.closed = true
	close(rs.state.closeCh)
	rs.state.mu.Unlock()

	rs.state.wg.Wait()

	zap.S().Info("所有房间协程已退出")
}

// 调用方必须持有锁
func (rs *RoomService) getOrCreate(code string) *roomActor {
	if actor := rs.get(code); actor != nil {
		return actor
	}

	actor := &roomActor{
		code:   code,
		room:   game.NewRoom(code, rs.words, rs.rng),
		reqCh: make(chan game.RoomAction, rs.mailboxSize),
	}

	rs.state.rooms[code] = actor

	rs.state.wg.Add(1)
	go rs.roomLoop(actor)

	zap.S().Infof("房间 %s 已创建", code)

	return actor
}

// 调用方必须持有锁
func (rs *RoomService) get(code string) *roomActor {
	return rs.state.rooms[code]
}

// 调用方必须持有锁，且房间已为空
func (rs *RoomService) remove(actor *roomActor) {
	if rs.state.rooms[actor.code] == actor {
		delete(rs.state.rooms, actor.code)
	}

	zap.S().Infof("房间 %s 已销毁", actor.code)
}

// 所有投递都在锁内以非阻塞方式进行，这样房间协程判断"房间为空且没有待处理请求"时
// 与注册表的状态是一致的
func (rs *RoomService) enqueue(code string, action game.RoomAction, create bool) error {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	if rs.state.closed {
		return ErrServiceClosed
	}

	var actor *roomActor
	if create {
		actor = rs.getOrCreate(code)
	} else {
		actor = rs.get(code)
	}

	if actor == nil {
		return game.ErrRoomNotFound
	}

	select {
	case actor.reqCh <- action:
		return nil
	default:
		zap.S().Warnf("房间 %s 请求通道已满，%s 请求被拒绝", code, action.Name())
		return ErrRoomBusy
	}
}

// JoinRoom 加入房间，房间不存在时创建
func (rs *RoomService) JoinRoom(code string, player game.Player) error {
	return rs.enqueue(code, game.RoomAction{
		Join: &game.JoinAction{Player: player},
	}, true)
}

// Dispatch 把操作投递给已存在的房间
func (rs *RoomService) Dispatch(code string, action game.RoomAction) error {
	return rs.enqueue(code, action, false)
}

// DispatchWait 在房间繁忙时持续重试，直到投递成功或 ctx 结束
// 用于离开这类不能丢失的操作
func (rs *RoomService) DispatchWait(ctx context.Context, code string, action game.RoomAction) error {
	for {
		err := rs.Dispatch(code, action)
		if !errors.Is(err, ErrRoomBusy) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(redeliverInterval):
		}
	}
}

// Leave 不能丢失：房间繁忙时一直重试，只有房间不存在、服务关闭或 ctx 结束时返回
func (rs *RoomService) Leave(ctx context.Context, code, playerID string) error {
	return rs.DispatchWait(ctx, code, game.RoomAction{
		Leave: &game.LeaveAction{PlayerID: playerID},
	})
}

// Summary 返回房间的公开信息
func (rs *RoomService) Summary(ctx context.Context, code string) (dto.RoomSummary, error) {
	respCh := make(chan game.RoomSnapshot, 1)

	err := rs.Dispatch(code, game.RoomAction{
		Snapshot: &game.SnapshotAction{RespCh: respCh},
	})
	if err != nil {
		return dto.RoomSummary{}, err
	}

	select {
	case snap := <-respCh:
		// 房间已清空、正在销毁
		if len(snap.Players) == 0 {
			return dto.RoomSummary{}, game.ErrRoomNotFound
		}

		players := make([]dto.PlayerSummary, 0, len(snap.Players))
		for _, p := range snap.Players {
			players = append(players, dto.PlayerSummary{
				Name:   p.Name,
				IsHost: p.IsHost,
			})
		}

		return dto.RoomSummary{
			Code:          snap.Code,
			Phase:         string(snap.Phase),
			PlayerCount:   len(players),
			Players:       players,
			BlankCardMode: snap.Settings.BlankCardMode,
		}, nil

	case <-ctx.Done():
		return dto.RoomSummary{}, ctx.Err()
	}
}

func (rs *RoomService) RoomCount() int {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	return len(rs.state.rooms)
}

func (rs *RoomService) roomLoop(actor *roomActor) {
	defer func() {
		rs.state.wg.Done()

		zap.S().Debugf("房间 %s 协程退出", actor.code)
	}()

	for {
		select {
		case <-rs.state.closeCh:
			zap.S().Infof("房间 %s 收到关闭指令", actor.code)
			return

		case action := <-actor.reqCh:
			zap.L().Debug(
				"房间处理请求",
				zap.String("room_code", actor.code),
				zap.String("action", action.Name()),
			)

			_ = actor.room.Handle(action)

			if actor.room.Empty() {
				rs.retire(actor)
				return
			}
		}
	}
}

// 房间为空时立即从注册表移除，协程随后退出
// 通道中剩余的请求在锁内转交：第一个加入请求及其之后的请求交给同一房间码的新房间，
// 之前的请求（离开、快照等）仍由这个空房间处理
func (rs *RoomService) retire(actor *roomActor) {
	rs.state.mu.Lock()
	defer rs.state.mu.Unlock()

	rs.remove(actor)

	var next *roomActor

	for {
		select {
		case action := <-actor.reqCh:
			if rs.state.closed {
				continue
			}

			if next == nil && action.Join == nil {
				_ = actor.room.Handle(action)
				continue
			}

			if next == nil {
				next = rs.getOrCreate(actor.code)
			}

			// 新房间的通道只在持有锁时由这里写入，容量与旧通道相同，不会满
			select {
			case next.reqCh <- action:
			default:
				zap.S().Warnf("房间 %s 转交请求失败：通道已满", actor.code)
			}

		default:
			return
		}
	}
}
