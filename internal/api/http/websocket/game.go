package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"impostor-party-be/internal/service"
	"impostor-party-be/internal/service/game"
	"impostor-party-be/internal/state"

	"github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	errMalformedRequest = errors.New("malformed request")
	errUnknownRequest   = errors.New("unknown request type")
	errAlreadyJoined    = errors.New("already joined a room on this connection")
	errTooManyRequests  = errors.New("too many requests, slow down")
)

func JoinGame(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		conn, err := upgrader.Upgrade(
			ctx.ResponseWriter(),
			ctx.Request(),
			nil,
		)
		if err != nil {
			zap.L().Error("升级到WebSocket失败", zap.Error(err))
			ctx.StatusCode(iris.StatusBadRequest)
			return
		}

		ServeConn(appState, conn, ctx.RemoteAddr())
	}
}

// session 是一条连接在网关中的全部状态：连接标识就是玩家ID
type session struct {
	appState *state.AppState
	conn     *websocket.Conn
	clientIP string

	playerID string
	// 加入房间前为空，一条连接最多加入一个房间
	roomCode string

	respCh  chan game.ResponseWrapper
	limiter *rate.Limiter
}

// ServeConn 处理一条已经升级的连接，直到客户端断开
// 断开后把玩家从所在房间移除
func ServeConn(appState *state.AppState, conn *websocket.Conn, clientIP string) {
	defer conn.Close()

	s := &session{
		appState: appState,
		conn:     conn,
		clientIP: clientIP,
		playerID: game.GenID(),
		respCh:   make(chan game.ResponseWrapper, RESP_BUFFER_SIZE),
		limiter: rate.NewLimiter(
			rate.Limit(appState.Cfg.ActionRate),
			appState.Cfg.ActionBurst,
		),
	}

	conn.SetReadLimit(MAX_MESSAGE_SIZE)
	_ = conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
	conn.SetPongHandler(heartbeatHandler(conn))

	zap.L().Info(
		"客户端已连接",
		zap.String("client_ip", clientIP),
		zap.String("player_id", s.playerID),
	)

	// 写协程的退出信号
	writeDoneCh := make(chan struct{})
	writerExitedCh := make(chan struct{})

	go func() {
		defer close(writerExitedCh)
		s.writeLoop(writeDoneCh)
	}()

	s.readLoop()

	s.leave()

	close(writeDoneCh)
	<-writerExitedCh

	zap.L().Info(
		"WebSocket连接处理完成",
		zap.String("client_ip", clientIP),
		zap.String("player_id", s.playerID),
	)
}

// 所有写操作都在这个协程中进行
func (s *session) writeLoop(doneCh <-chan struct{}) {
	ticker := time.NewTicker(HEARTBEAT_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-doneCh:
			return

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				zap.L().Error(
					"发送心跳失败",
					zap.String("client_ip", s.clientIP),
					zap.Error(err),
				)
				return
			}

		case resp := <-s.respCh:
			_ = s.conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := s.conn.WriteJSON(resp); err != nil {
				zap.L().Error(
					"发送消息失败",
					zap.String("client_ip", s.clientIP),
					zap.Error(err),
				)
				return
			}

			zap.L().Debug(
				"发送消息",
				zap.String("player_id", s.playerID),
				zap.String("response_type", resp.RespType),
			)
		}
	}
}

func (s *session) readLoop() {
	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseAbnormalClosure,
			) {
				zap.L().Warn(
					"读取消息失败",
					zap.String("client_ip", s.clientIP),
					zap.Error(err),
				)
			}

			return
		}

		if !s.limiter.Allow() {
			s.reject(errTooManyRequests)
			continue
		}

		var wrapper game.RequestWrapper

		if err := json.Unmarshal(msg, &wrapper); err != nil {
			zap.L().Debug(
				"解析消息失败",
				zap.String("client_ip", s.clientIP),
				zap.Error(err),
			)

			s.reject(errMalformedRequest)
			continue
		}

		s.handle(wrapper)
	}
}

func (s *session) handle(wrapper game.RequestWrapper) {
	switch wrapper.ReqType {
	case game.REQ_CREATE_OR_JOIN_ROOM:
		req := game.TryUnwrapCreateOrJoinRoomRequest(wrapper)
		if req == nil {
			s.reject(errMalformedRequest)
			return
		}

		s.join(req)

	case game.REQ_START_ROUND:
		req := game.TryUnwrapStartRoundRequest(wrapper)
		if req == nil {
			s.reject(errMalformedRequest)
			return
		}

		s.dispatch(req.RoomCode, game.RoomAction{
			Start: &game.StartRoundAction{
				PlayerID: s.playerID,
				Settings: req.Settings,
			},
		})

	case game.REQ_ADVANCE_TURN:
		req := game.TryUnwrapAdvanceTurnRequest(wrapper)
		if req == nil {
			s.reject(errMalformedRequest)
			return
		}

		s.dispatch(req.RoomCode, game.RoomAction{
			Advance: &game.AdvanceTurnAction{PlayerID: s.playerID},
		})

	case game.REQ_REVEAL_WORDS:
		req := game.TryUnwrapRevealWordsRequest(wrapper)
		if req == nil {
			s.reject(errMalformedRequest)
			return
		}

		s.dispatch(req.RoomCode, game.RoomAction{
			Reveal: &game.RevealWordsAction{PlayerID: s.playerID},
		})

	default:
		zap.L().Debug(
			"未知的请求类型",
			zap.String("client_ip", s.clientIP),
			zap.String("request_type", wrapper.ReqType),
		)

		s.reject(errUnknownRequest)
	}
}

func (s *session) join(req *game.CreateOrJoinRoomRequest) {
	if s.roomCode != "" {
		s.reject(errAlreadyJoined)
		return
	}

	if err := req.Validate(); err != nil {
		s.reject(err)
		return
	}

	code := service.NormalizeRoomCode(req.RoomCode)

	player := game.Player{
		ID:     s.playerID,
		Name:   strings.TrimSpace(req.PlayerName),
		RespCh: s.respCh,
	}

	if err := s.appState.RoomSvc.JoinRoom(code, player); err != nil {
		s.reject(err)
		return
	}

	s.roomCode = code

	zap.L().Info(
		"玩家加入房间",
		zap.String("client_ip", s.clientIP),
		zap.String("player_id", s.playerID),
		zap.String("player_name", player.Name),
		zap.String("room_code", code),
	)
}

// 请求只能作用于连接所在的房间；不带房间码时默认为所在房间
func (s *session) dispatch(roomCode string, action game.RoomAction) {
	code := service.NormalizeRoomCode(roomCode)
	if code == "" {
		code = s.roomCode
	}

	if s.roomCode == "" || code != s.roomCode {
		s.reject(game.ErrRoomNotFound)
		return
	}

	if err := s.appState.RoomSvc.Dispatch(code, action); err != nil {
		s.reject(err)
	}
}

// 断开连接是终结性的：房间繁忙时等待，直到离开被送达
// 只有房间已不存在或服务关闭时才会放弃
func (s *session) leave() {
	if s.roomCode == "" {
		return
	}

	if err := s.appState.RoomSvc.Leave(context.Background(), s.roomCode, s.playerID); err != nil {
		zap.L().Warn(
			"通知房间玩家离开失败",
			zap.String("room_code", s.roomCode),
			zap.String("player_id", s.playerID),
			zap.Error(err),
		)
	}
}

// 错误只回复给请求者；写缓冲已满时直接丢弃
func (s *session) reject(err error) {
	select {
	case s.respCh <- game.WrapErrResponse(err.Error()):
	default:
		zap.L().Warn(
			"响应通道已满，丢弃错误响应",
			zap.String("player_id", s.playerID),
			zap.Error(err),
		)
	}
}
