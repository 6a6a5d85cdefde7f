package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// NOTE: 房间链接通过二维码分享，暂时允许所有来源
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const (
	// 心跳间隔
	HEARTBEAT_INTERVAL = 30 * time.Second
	// 心跳超时时间
	HEARTBEAT_TIMEOUT = 45 * time.Second
	// 单次写入的超时时间
	WRITE_TIMEOUT = 10 * time.Second
	// 单条客户端消息的最大字节数
	MAX_MESSAGE_SIZE = 4096

	// 每个连接待发送消息的缓冲
	RESP_BUFFER_SIZE = 64
)

var heartbeatHandler = func(conn *websocket.Conn) func(string) error {
	return func(string) error {
		return conn.SetReadDeadline(time.Now().Add(HEARTBEAT_TIMEOUT))
	}
}
