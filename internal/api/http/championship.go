package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"championship-be/internal/service"
	"championship-be/internal/service/dto"
	"championship-be/internal/state"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

// 成绩表单中每个输入框的名字前缀，后接玩家名
const SCORE_FIELD_PREFIX = "player_"

var errInvalidScore = errors.New("invalid score")

func ListChampionships(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		list, err := appState.ChampSvc.ListChampionships(ctx.Request().Context())
		if err != nil {
			zap.L().Error("list championships failed", zap.Error(err))
			ctx.StopWithStatus(iris.StatusInternalServerError)
			return
		}

		renderView(ctx, "championship.html", iris.Map{
			"Championships": list,
		})
	}
}

func ShowChampionship(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		id := ctx.Params().Get("id")

		champ, err := appState.ChampSvc.GetChampionship(ctx.Request().Context(), id)
		if err != nil {
			redirectOnMissing(ctx, id, err)
			return
		}

		if champ.Finished {
			renderView(ctx, "finished_championship.html", iris.Map{"Champ": champ})
			return
		}

		renderView(ctx, "current_championship.html", iris.Map{"Champ": champ})
	}
}

func ProcessChampionship(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		id := ctx.Params().Get("id")

		scores, err := parseScores(ctx.FormValues())
		if err == nil {
			_, err = appState.ChampSvc.SubmitRound(
				ctx.Request().Context(),
				id,
				dto.SubmitRoundRequest{Scores: scores},
			)
		}

		switch {
		case err == nil, errors.Is(err, service.ErrFinished):
			ctx.Redirect("/championship/"+id, iris.StatusSeeOther)

		case errors.Is(err, service.ErrNotFound):
			redirectOnMissing(ctx, id, err)

		case errors.Is(err, errInvalidScore), errors.Is(err, service.ErrMissingScore):
			champ, getErr := appState.ChampSvc.GetChampionship(ctx.Request().Context(), id)
			if getErr != nil {
				redirectOnMissing(ctx, id, getErr)
				return
			}

			ctx.StatusCode(iris.StatusBadRequest)
			renderView(ctx, "current_championship.html", iris.Map{
				"Champ": champ,
				"Error": err.Error(),
			})

		default:
			zap.L().Error(
				"process round failed",
				zap.String("championship_id", id),
				zap.Error(err),
			)
			ctx.StopWithStatus(iris.StatusInternalServerError)
		}
	}
}

func parseScores(form map[string][]string) (map[string]int, error) {
	scores := make(map[string]int)

	for key, vals := range form {
		name, ok := strings.CutPrefix(key, SCORE_FIELD_PREFIX)
		if !ok || len(vals) == 0 {
			continue
		}

		score, err := strconv.Atoi(strings.TrimSpace(vals[0]))
		if err != nil {
			return nil, fmt.Errorf("%w for %q", errInvalidScore, name)
		}
		scores[name] = score
	}

	return scores, nil
}

func ShowResults(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		id := ctx.Params().Get("id")

		champ, standings, err := appState.ChampSvc.Standings(ctx.Request().Context(), id)
		if err != nil {
			redirectOnMissing(ctx, id, err)
			return
		}

		renderView(ctx, "results.html", iris.Map{
			"Champ":  champ,
			"Result": standings,
		})
	}
}

func GetChampionshipJSON(appState *state.AppState) iris.Handler {
	return func(ctx iris.Context) {
		champ, err := appState.ChampSvc.GetChampionship(ctx.Request().Context(), ctx.Params().Get("id"))
		if err != nil {
			status := iris.StatusInternalServerError
			if errors.Is(err, service.ErrNotFound) {
				status = iris.StatusNotFound
			}

			ctx.StatusCode(status)
			ctx.JSON(iris.Map{
				"error": err.Error(),
			})
			return
		}

		ctx.JSON(champ)
	}
}

func redirectOnMissing(ctx iris.Context, id string, err error) {
	if errors.Is(err, service.ErrNotFound) {
		ctx.Redirect("/championship", iris.StatusSeeOther)
		return
	}

	zap.L().Error(
		"load championship failed",
		zap.String("championship_id", id),
		zap.Error(err),
	)
	ctx.StopWithStatus(iris.StatusInternalServerError)
}
