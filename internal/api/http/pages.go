package http

import (
	"championship-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

func Index(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		renderView(ctx, "index.html", nil)
	}
}

// 登录页仅做展示，账号功能尚未提供
func Login(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		renderView(ctx, "login.html", nil)
	}
}

func renderView(ctx iris.Context, name string, data iris.Map) {
	if err := ctx.View(name, data); err != nil {
		zap.L().Error(
			"render view failed",
			zap.String("view", name),
			zap.Error(err),
		)
		ctx.StopWithStatus(iris.StatusInternalServerError)
	}
}
