package http

import (
	"fmt"

	"championship-be/internal/api/http/websocket"
	"championship-be/internal/state"
	"championship-be/internal/views"

	"github.com/kataras/iris/v12"
)

func NewApp(appState *state.AppState) *iris.Application {
	app := iris.Default()

	app.RegisterView(iris.HTML(views.Templates(), ".html"))

	app.Get("/", Index(appState))
	app.Get("/index", Index(appState))
	app.Get("/login", Login(appState))

	app.Get("/championships", ListChampionships(appState))
	app.Get("/championship", ListChampionships(appState))
	app.Get("/championship/{id}", ShowChampionship(appState))
	app.Get("/championship/{id}/results", ShowResults(appState))
	app.Post("/process_champ/{id}", ProcessChampionship(appState))

	app.Get("/new_champ", NewChampForm(appState))
	app.Post("/new_champ/add", AddPlayerBlock(appState))
	app.Post("/create_champ", CreateChampionship(appState))

	api := app.Party("/api/v1")

	api.Get("/championships/{id}", GetChampionshipJSON(appState))

	api.Get("/ws/championship/{id}", websocket.WatchChampionship(appState))

	return app
}

func RunServer(appState *state.AppState) error {
	app := NewApp(appState)

	addr := fmt.Sprintf(
		"%s:%d",
		appState.Cfg.Host,
		appState.Cfg.Port,
	)

	return app.Listen(addr)
}
