package service

import (
	"context"
	"path/filepath"
	"testing"

	"championship-be/internal/service/championship"
	"championship-be/internal/service/dto"
	"championship-be/internal/storage/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *ChampionshipService {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "champ.db"))
	require.NoError(t, err)

	svc := NewChampionshipService(store, championship.DefaultPoints)
	t.Cleanup(func() { _ = svc.Close() })

	return svc
}

func createSwiss(t *testing.T, svc *ChampionshipService, names ...string) string {
	t.Helper()

	req := dto.CreateChampionshipRequest{Name: "Cup", Type: championship.TYPE_SWISS}
	for _, n := range names {
		req.Players = append(req.Players, dto.PlayerEntry{Name: n})
	}

	resp, err := svc.CreateChampionship(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ChampionshipID)

	return resp.ChampionshipID
}

func TestCreateChampionship(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	resp, err := svc.CreateChampionship(ctx, dto.CreateChampionshipRequest{
		Name: "<b>Spring</b> Cup",
		Type: championship.TYPE_SWISS,
		Players: []dto.PlayerEntry{
			{Name: "Ann", Number: "7"},
			{Name: "   "},
			{Name: "<script>x</script>Bob"},
		},
	})
	require.NoError(t, err)

	champ, err := svc.GetChampionship(ctx, resp.ChampionshipID)
	require.NoError(t, err)

	assert.Equal(t, "Spring Cup", champ.Name)
	require.Len(t, champ.Players, 2)
	assert.Equal(t, "Ann", champ.Players[0].Name)
	assert.Equal(t, "7", champ.Players[0].Number)
	assert.Equal(t, "Bob", champ.Players[1].Name)
	assert.Equal(t, 1, champ.RoundNumber())
	assert.Equal(t, []championship.Pairing{{Player1: "Ann", Player2: "Bob"}}, champ.Pairings())
}

func TestCreateChampionship_Rejects(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.CreateChampionship(ctx, dto.CreateChampionshipRequest{
		Type:    "Ladder",
		Players: []dto.PlayerEntry{{Name: "a"}, {Name: "b"}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.CreateChampionship(ctx, dto.CreateChampionshipRequest{
		Type:    championship.TYPE_SWISS,
		Players: []dto.PlayerEntry{{Name: "a"}, {Name: ""}},
	})
	assert.ErrorIs(t, err, ErrNotEnoughPlayers)

	_, err = svc.CreateChampionship(ctx, dto.CreateChampionshipRequest{
		Type:    championship.TYPE_SWISS,
		Players: []dto.PlayerEntry{{Name: "a"}, {Name: "a"}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	list, err := svc.ListChampionships(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSubmitRound_PlaysToTheEnd(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	id := createSwiss(t, svc, "Ann", "Bob")

	events, cancel := svc.Subscribe(id)
	defer cancel()

	_, err := svc.SubmitRound(ctx, id, dto.SubmitRoundRequest{Scores: map[string]int{"Ann": 2}})
	assert.ErrorIs(t, err, ErrMissingScore)

	champ, err := svc.SubmitRound(ctx, id, dto.SubmitRoundRequest{Scores: map[string]int{"Ann": 2, "Bob": 1}})
	require.NoError(t, err)
	assert.True(t, champ.Finished)

	select {
	case ev := <-events:
		assert.Equal(t, dto.RESP_CHAMP_FINISHED, ev.RespType)
		round, ok := ev.Data.(dto.RoundEvent)
		require.True(t, ok)
		assert.True(t, round.Finished)
		assert.Equal(t, "Ann", round.Standings[0].Name)
		assert.Equal(t, 3, round.Standings[0].Score)
	default:
		t.Fatal("expected a finished event")
	}

	_, err = svc.SubmitRound(ctx, id, dto.SubmitRoundRequest{Scores: map[string]int{"Ann": 2, "Bob": 1}})
	assert.ErrorIs(t, err, ErrFinished)

	_, standings, err := svc.Standings(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []championship.Standing{
		{Rank: 1, Name: "Ann", Score: 3},
		{Rank: 2, Name: "Bob", Score: 0},
	}, standings)
}

func TestSubmitRound_UnknownChampionship(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.SubmitRound(context.Background(), "missing", dto.SubmitRoundRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListChampionships(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	createSwiss(t, svc, "Ann", "Bob", "Cid")

	list, err := svc.ListChampionships(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cup", list[0].Name)
	assert.Equal(t, 3, list[0].PlayerCount)
	assert.Equal(t, 1, list[0].RoundNumber)
	assert.False(t, list[0].Finished)
}

func TestEventHub_CancelAndClose(t *testing.T) {
	hub := newEventHub()

	ch, cancel := hub.subscribe("c1")
	hub.publish("c1", dto.WrapResponse(dto.RESP_ROUND_STARTED, nil))
	hub.publish("other", dto.WrapResponse(dto.RESP_ROUND_STARTED, nil))

	got := <-ch
	assert.Equal(t, dto.RESP_ROUND_STARTED, got.RespType)

	cancel()
	_, open := <-ch
	assert.False(t, open)
	cancel()

	ch2, _ := hub.subscribe("c1")
	hub.close()
	_, open = <-ch2
	assert.False(t, open)

	ch3, _ := hub.subscribe("c1")
	_, open = <-ch3
	assert.False(t, open)
}

func TestEventHub_DropsWhenFull(t *testing.T) {
	hub := newEventHub()
	ch, cancel := hub.subscribe("c1")
	defer cancel()

	for i := 0; i < SUBSCRIBER_BUFFER+5; i++ {
		hub.publish("c1", dto.WrapResponse(dto.RESP_ROUND_STARTED, i))
	}

	assert.Len(t, ch, SUBSCRIBER_BUFFER)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "A&B", cleanText("  A&B "))
	assert.Equal(t, "Bob", cleanText("<i>Bob</i>"))
	assert.Equal(t, "", cleanText("<script>alert(1)</script>"))
}
