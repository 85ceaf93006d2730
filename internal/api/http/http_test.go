package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"championship-be/internal/api/http/websocket"
	"championship-be/internal/config"
	"championship-be/internal/service"
	"championship-be/internal/service/championship"
	"championship-be/internal/service/dto"
	"championship-be/internal/state"
	"championship-be/internal/storage/sqlite"

	gorillaws "github.com/gorilla/websocket"
	"github.com/kataras/iris/v12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*iris.Application, *state.AppState) {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "champ.db"))
	require.NoError(t, err)

	svc := service.NewChampionshipService(store, championship.DefaultPoints)
	t.Cleanup(func() { _ = svc.Close() })

	appState := state.NewAppState(&config.AppConfig{MaxPlayers: 4}, svc)

	app := NewApp(appState)
	require.NoError(t, app.Build())

	return app, appState
}

func do(app *iris.Application, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	return rec
}

func TestNewChampForm(t *testing.T) {
	app, _ := newTestApp(t)

	rec := do(app, http.MethodGet, "/new_champ?players=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `name="player_1"`)
	assert.NotContains(t, body, `name="player_2"`)
	assert.Contains(t, body, "Number of players: 2")

	// clamped to max_players
	rec = do(app, http.MethodGet, "/new_champ?players=50", nil)
	assert.Contains(t, rec.Body.String(), "Number of players: 4")
}

func TestAddPlayerBlock_KeepsEntries(t *testing.T) {
	app, _ := newTestApp(t)

	rec := do(app, http.MethodPost, "/new_champ/add", url.Values{
		"name":     {"Cup"},
		"type":     {"Swiss"},
		"player_0": {"Ann"},
		"num_0":    {"1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `name="player_0" placeholder="Player name" value="Ann"`)
	assert.Contains(t, body, `name="player_1"`)
	assert.Contains(t, body, "Number of players: 2")
}

func TestChampionshipFlow(t *testing.T) {
	app, appState := newTestApp(t)

	rec := do(app, http.MethodPost, "/create_champ", url.Values{
		"name":     {"Cup"},
		"type":     {"SingleElimination"},
		"player_0": {"Ann"},
		"num_0":    {"1"},
		"player_1": {"Bob"},
		"num_1":    {"2"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	location := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/championship/"), location)
	id := strings.TrimPrefix(location, "/championship/")

	rec = do(app, http.MethodGet, location, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "round 1")

	champ, err := appState.ChampSvc.GetChampionship(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, champ.Pairings(), 1)

	rec = do(app, http.MethodPost, "/process_champ/"+id, url.Values{
		"player_Ann": {"x"},
		"player_Bob": {"1"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid score")

	rec = do(app, http.MethodPost, "/process_champ/"+id, url.Values{
		"player_Ann": {"3"},
		"player_Bob": {"1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/championship/"+id, rec.Header().Get("Location"))

	rec = do(app, http.MethodGet, "/championship/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "is finished")

	rec = do(app, http.MethodGet, "/championship/"+id+"/results", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>Ann</td><td>1</td><td>3</td>")

	rec = do(app, http.MethodGet, "/championships", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "finished")

	rec = do(app, http.MethodGet, "/api/v1/championships/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot championship.Championship
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.True(t, snapshot.Finished)
	assert.Equal(t, id, snapshot.ID)
}

func TestCreateChampionship_BadRequest(t *testing.T) {
	app, _ := newTestApp(t)

	rec := do(app, http.MethodPost, "/create_champ", url.Values{
		"type":     {"Swiss"},
		"player_0": {"Ann"},
		"num_0":    {""},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Ann"`)
}

func TestUnknownChampionshipRedirects(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{"/championship/nope", "/championship/nope/results"} {
		rec := do(app, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, target)
		assert.Equal(t, "/championship", rec.Header().Get("Location"), target)
	}

	rec := do(app, http.MethodGet, "/api/v1/championships/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticPages(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{"/", "/index", "/login", "/championship"} {
		rec := do(app, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestWatchChampionship(t *testing.T) {
	app, appState := newTestApp(t)

	resp, err := appState.ChampSvc.CreateChampionship(context.Background(), dto.CreateChampionshipRequest{
		Type:    championship.TYPE_SWISS,
		Players: []dto.PlayerEntry{{Name: "Ann"}, {Name: "Bob"}, {Name: "Cid"}, {Name: "Dan"}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(app)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/championship/" + resp.ChampionshipID
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot struct {
		RespType string         `json:"response_type"`
		Data     dto.RoundEvent `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&snapshot))
	assert.Equal(t, dto.RESP_SNAPSHOT, snapshot.RespType)
	assert.Equal(t, 1, snapshot.Data.Round)
	assert.Len(t, snapshot.Data.Pairings, 2)

	_, err = appState.ChampSvc.SubmitRound(context.Background(), resp.ChampionshipID, dto.SubmitRoundRequest{
		Scores: map[string]int{"Ann": 1, "Bob": 0, "Cid": 1, "Dan": 0},
	})
	require.NoError(t, err)

	var next struct {
		RespType string         `json:"response_type"`
		Data     dto.RoundEvent `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, dto.RESP_ROUND_STARTED, next.RespType)
	assert.Equal(t, 2, next.Data.Round)
}

func TestWatchChampionship_ServiceClosed(t *testing.T) {
	app, appState := newTestApp(t)

	resp, err := appState.ChampSvc.CreateChampionship(context.Background(), dto.CreateChampionshipRequest{
		Type:    championship.TYPE_SWISS,
		Players: []dto.PlayerEntry{{Name: "Ann"}, {Name: "Bob"}},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(app)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/championship/" + resp.ChampionshipID
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var snapshot dto.ResponseWrapper
	require.NoError(t, conn.ReadJSON(&snapshot))
	require.Equal(t, dto.RESP_SNAPSHOT, snapshot.RespType)

	require.NoError(t, appState.ChampSvc.Close())

	var errFrame dto.ResponseWrapper
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, dto.RESP_ERROR, errFrame.RespType)
	assert.Equal(t, websocket.ERR_MSG_SERVICE_CLOSED, errFrame.ErrMsg)

	_, _, err = conn.ReadMessage()
	assert.True(t, gorillaws.IsCloseError(err, gorillaws.CloseGoingAway), "got %v", err)
}
