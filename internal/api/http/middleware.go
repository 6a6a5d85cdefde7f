package http

import (
	stdhttp "net/http"

	"impostor-party-be/internal/config"

	"github.com/kataras/iris/v12"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
)

// 在 iris 路由之外包一层标准库中间件：安全响应头 + 跨域
// 前端可能部署在其他域名下，只需要 GET 接口和 WebSocket 握手
func wrapRouter(app *iris.Application, cfg *config.AppConfig) {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{stdhttp.MethodGet, stdhttp.MethodHead, stdhttp.MethodOptions},
	})

	s := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "same-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	app.WrapRouter(func(w stdhttp.ResponseWriter, r *stdhttp.Request, router stdhttp.HandlerFunc) {
		s.Handler(c.Handler(router)).ServeHTTP(w, r)
	})
}
