package http

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"impostor-party-be/internal/service"
	"impostor-party-be/internal/service/dto"
	"impostor-party-be/internal/service/game"
	"impostor-party-be/internal/state"

	"github.com/kataras/iris/v12"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	// 房间协程回复快照的最长等待时间
	SUMMARY_TIMEOUT = 2 * time.Second
	// 适合手机扫描的尺寸
	QRCODE_SIZE = 320
)

func Health(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		ctx.JSON(dto.HealthResponse{
			Status: "ok",
			Rooms:  appState.RoomSvc.RoomCount(),
		})
	}
}

// 房间的公开信息，不包含任何词语
func RoomSummary(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		code := service.NormalizeRoomCode(ctx.Params().Get("code"))

		reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), SUMMARY_TIMEOUT)
		defer cancel()

		summary, err := appState.RoomSvc.Summary(reqCtx, code)
		if err != nil {
			writeError(ctx, err)
			return
		}

		ctx.JSON(summary)
	}
}

// 生成房间链接的二维码，房间不存在时也可以生成，扫码后即创建
func RoomQRCode(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		code := service.NormalizeRoomCode(ctx.Params().Get("code"))
		if code == "" || len(code) > game.MAX_ROOM_CODE_LEN {
			writeError(ctx, game.ErrInvalidRequest)
			return
		}

		link := roomURL(ctx, appState.Cfg.PublicURL, code)

		png, err := qrcode.Encode(link, qrcode.Medium, QRCODE_SIZE)
		if err != nil {
			zap.L().Error("生成二维码失败", zap.String("url", link), zap.Error(err))
			ctx.StatusCode(iris.StatusInternalServerError)
			ctx.JSON(iris.Map{
				"error": "qr generation failed",
			})
			return
		}

		ctx.ContentType("image/png")
		_, _ = ctx.Write(png)
	}
}

// 优先使用配置的外部地址，否则根据请求推断（考虑反向代理的 X-Forwarded-Proto）
func roomURL(ctx iris.Context, publicURL, code string) string {
	base := strings.TrimSuffix(publicURL, "/")

	if base == "" {
		scheme := "http"
		if ctx.Request().TLS != nil {
			scheme = "https"
		}
		if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		base = scheme + "://" + ctx.Host()
	}

	return base + "/" + url.PathEscape(code)
}

func writeError(ctx iris.Context, err error) {
	status := iris.StatusInternalServerError

	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		status = iris.StatusNotFound
	case errors.Is(err, game.ErrInvalidRequest):
		status = iris.StatusBadRequest
	case errors.Is(err, service.ErrRoomBusy), errors.Is(err, service.ErrServiceClosed):
		status = iris.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = iris.StatusGatewayTimeout
	}

	ctx.StatusCode(status)
	ctx.JSON(iris.Map{
		"error": err.Error(),
	})
}
