package http

import (
	"context"
	"time"

	"impostor-party-be/internal/api/http/websocket"
	"impostor-party-be/internal/state"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/recover"
	"github.com/kataras/iris/v12/middleware/requestid"
	"go.uber.org/zap"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

// NewApp 注册所有路由，静态目录为空时只提供接口
func NewApp(appState *state.AppState) *iris.Application {
	// 不使用 iris.Default()：它自带放行所有来源的跨域处理
	app := iris.New()
	app.UseRouter(recover.New())
	app.UseRouter(requestid.New())

	wrapRouter(app, appState.Cfg)

	app.Get("/healthz", Health(appState))

	api := app.Party("/api/v1")

	api.Get("/rooms/{code}", RoomSummary(appState))
	api.Get("/rooms/{code}/qrcode", RoomQRCode(appState))

	api.Get("/ws", websocket.JoinGame(appState))

	// SPA 模式下 /{roomCode} 这类前端路由也会返回 index.html
	if appState.Cfg.StaticDir != "" {
		app.HandleDir(
			"/",
			iris.Dir(appState.Cfg.StaticDir),
			iris.DirOptions{
				IndexName: "index.html",
				SPA:       true,
				Compress:  true,
			},
		)
	}

	return app
}

// RunServer 阻塞直到服务器退出；ctx 结束时优雅关闭
func RunServer(ctx context.Context, appState *state.AppState) error {
	app := NewApp(appState)

	go func() {
		<-ctx.Done()

		zap.L().Info("正在关闭HTTP服务器")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()

		if err := app.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("关闭HTTP服务器失败", zap.Error(err))
		}
	}()

	return app.Listen(
		appState.Cfg.Addr(),
		iris.WithoutInterruptHandler,
		iris.WithoutServerError(iris.ErrServerClosed),
	)
}
