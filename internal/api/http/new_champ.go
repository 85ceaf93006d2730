package http

import (
	"bytes"
	"errors"
	"net/url"

	"championship-be/internal/roster"
	"championship-be/internal/service"
	"championship-be/internal/service/dto"
	"championship-be/internal/state"
	"championship-be/internal/views"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// NewChampForm renders the form with ?players=N player blocks.
func NewChampForm(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		players := ctx.URLParamIntDefault("players", 0)

		writeNewChampForm(ctx, appState, players, nil)
	}
}

// AddPlayerBlock re-renders the posted form with one more player block,
// keeping whatever the user already typed.
func AddPlayerBlock(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		values := url.Values(ctx.FormValues())
		players := len(roster.Collect(values, views.PlayerFields...))

		writeNewChampForm(ctx, appState, players+1, values)
	}
}

func CreateChampionship(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		values := url.Values(ctx.FormValues())

		req := dto.CreateChampionshipRequest{
			Name: values.Get("name"),
			Type: values.Get("type"),
		}
		for _, row := range roster.Collect(values, views.PlayerFields...) {
			req.Players = append(req.Players, dto.PlayerEntry{
				Name:   row[0],
				Number: row[1],
			})
		}

		resp, err := appState.ChampSvc.CreateChampionship(ctx.Request().Context(), req)
		if err != nil {
			status := iris.StatusInternalServerError
			if errors.Is(err, service.ErrInvalidRequest) || errors.Is(err, service.ErrNotEnoughPlayers) {
				status = iris.StatusBadRequest
			}

			zap.L().Warn(
				"create championship failed",
				zap.String("client_ip", ctx.RemoteAddr()),
				zap.Error(err),
			)

			ctx.StatusCode(status)
			writeNewChampForm(ctx, appState, len(req.Players), values)
			return
		}

		ctx.Redirect("/championship/"+resp.ChampionshipID, iris.StatusSeeOther)
	}
}

func writeNewChampForm(ctx iris.Context, appState *state.AppState, players int, values url.Values) {
	if players < 0 {
		players = 0
	}
	if players > appState.Cfg.MaxPlayers {
		zap.L().Debug(
			"player blocks clamped",
			zap.Int("requested", players),
			zap.Int("max_players", appState.Cfg.MaxPlayers),
		)
		players = appState.Cfg.MaxPlayers
	}

	var buf bytes.Buffer
	if err := views.RenderNewChamp(&buf, players, values); err != nil {
		zap.L().Error("render new championship form failed", zap.Error(err))
		ctx.StopWithStatus(iris.StatusInternalServerError)
		return
	}

	ctx.ContentType("text/html; charset=utf-8")
	ctx.Write(buf.Bytes())
}
