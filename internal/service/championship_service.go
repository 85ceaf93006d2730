package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"championship-be/internal/service/championship"
	"championship-be/internal/service/dto"
	"championship-be/internal/storage"

	"go.uber.org/zap"
)

const (
	DEFAULT_CHAMP_NAME = "Championship"
	MIN_PLAYERS        = 2
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrNotEnoughPlayers = errors.New("at least two players are required")
	ErrMissingScore     = errors.New("missing score")
	ErrNotFound         = storage.ErrNotFound
	ErrFinished         = championship.ErrFinished
)

type ChampionshipService struct {
	store  storage.ChampionshipStore
	points championship.Points
	hub    *eventHub

	// 同一时间只处理一个赛事的轮次提交，避免读改写竞争
	mu sync.Mutex
}

func NewChampionshipService(store storage.ChampionshipStore, points championship.Points) *ChampionshipService {
	return &ChampionshipService{
		store:  store,
		points: points,
		hub:    newEventHub(),
	}
}

func (cs *ChampionshipService) Close() error {
	cs.hub.close()
	return cs.store.Close()
}

func (cs *ChampionshipService) CreateChampionship(
	ctx context.Context,
	req dto.CreateChampionshipRequest,
) (dto.CreateChampionshipResponse, error) {
	if !championship.ValidType(req.Type) {
		return dto.CreateChampionshipResponse{}, fmt.Errorf("%w: unknown championship type %q", ErrInvalidRequest, req.Type)
	}

	name := cleanText(req.Name)
	if name == "" {
		name = DEFAULT_CHAMP_NAME
	}

	champ, err := championship.New(GenID(), name, req.Type, cs.points)
	if err != nil {
		return dto.CreateChampionshipResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	for _, entry := range req.Players {
		playerName := cleanText(entry.Name)
		// 空行直接忽略
		if playerName == "" {
			continue
		}

		if err := champ.AddPlayer(playerName, cleanText(entry.Number)); err != nil {
			return dto.CreateChampionshipResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	if len(champ.Players) < MIN_PLAYERS {
		return dto.CreateChampionshipResponse{}, ErrNotEnoughPlayers
	}

	if err := champ.NextRound(); err != nil {
		return dto.CreateChampionshipResponse{}, fmt.Errorf("start first round: %w", err)
	}

	rec, err := toRecord(champ)
	if err != nil {
		return dto.CreateChampionshipResponse{}, err
	}

	if err := cs.store.Create(ctx, rec); err != nil {
		return dto.CreateChampionshipResponse{}, fmt.Errorf("save championship: %w", err)
	}

	zap.L().Info(
		"championship created",
		zap.String("championship_id", champ.ID),
		zap.String("type", champ.Type),
		zap.Int("players", len(champ.Players)),
	)

	return dto.CreateChampionshipResponse{
		ChampionshipID: champ.ID,
	}, nil
}

func (cs *ChampionshipService) GetChampionship(ctx context.Context, id string) (*championship.Championship, error) {
	rec, err := cs.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return fromRecord(rec)
}

func (cs *ChampionshipService) ListChampionships(ctx context.Context) ([]dto.ChampionshipSummary, error) {
	recs, err := cs.store.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChampionshipSummary, 0, len(recs))
	for _, rec := range recs {
		champ, err := fromRecord(rec)
		if err != nil {
			zap.L().Warn(
				"skipping unreadable championship",
				zap.String("championship_id", rec.ID),
				zap.Error(err),
			)
			continue
		}

		out = append(out, dto.ChampionshipSummary{
			ID:          champ.ID,
			Name:        champ.Name,
			Type:        champ.Type,
			Finished:    champ.Finished,
			CreatedAt:   champ.CreatedAt,
			RoundNumber: champ.RoundNumber(),
			PlayerCount: len(champ.Players),
		})
	}

	return out, nil
}

func (cs *ChampionshipService) Standings(ctx context.Context, id string) (*championship.Championship, []championship.Standing, error) {
	champ, err := cs.GetChampionship(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return champ, champ.Standings(), nil
}

// SubmitRound records one score per paired player, then opens the next
// round. The championship finishes when no further pairing is possible.
func (cs *ChampionshipService) SubmitRound(
	ctx context.Context,
	id string,
	req dto.SubmitRoundRequest,
) (*championship.Championship, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	champ, err := cs.GetChampionship(ctx, id)
	if err != nil {
		return nil, err
	}

	if champ.Finished {
		return champ, ErrFinished
	}

	pairings := champ.Pairings()
	for _, p := range pairings {
		for _, name := range []string{p.Player1, p.Player2} {
			if _, ok := req.Scores[name]; !ok {
				return nil, fmt.Errorf("%w for %q", ErrMissingScore, name)
			}
		}
	}

	for _, p := range pairings {
		if err := champ.RecordResult(p.Player1, p.Player2, req.Scores[p.Player1], req.Scores[p.Player2]); err != nil {
			return nil, fmt.Errorf("record result: %w", err)
		}
	}

	if err := champ.NextRound(); err != nil {
		return nil, fmt.Errorf("next round: %w", err)
	}

	rec, err := toRecord(champ)
	if err != nil {
		return nil, err
	}
	rec.UpdatedAt = time.Now()

	if err := cs.store.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("save championship: %w", err)
	}

	zap.L().Info(
		"round processed",
		zap.String("championship_id", champ.ID),
		zap.Int("round", champ.RoundNumber()),
		zap.Bool("finished", champ.Finished),
	)

	cs.hub.publish(champ.ID, roundResponse(champ))

	return champ, nil
}

// Subscribe streams round events of one championship. The returned func
// releases the subscription and closes the channel.
func (cs *ChampionshipService) Subscribe(id string) (<-chan dto.ResponseWrapper, func()) {
	return cs.hub.subscribe(id)
}

func RoundEventOf(champ *championship.Championship) dto.RoundEvent {
	ev := dto.RoundEvent{
		ChampionshipID: champ.ID,
		Round:          champ.RoundNumber(),
		Pairings:       champ.Pairings(),
		Standings:      champ.Standings(),
		Finished:       champ.Finished,
	}

	if r := champ.CurrentRound(); r != nil {
		ev.Bye = r.Bye
	}
	if ev.Pairings == nil {
		ev.Pairings = make([]championship.Pairing, 0)
	}

	return ev
}

func roundResponse(champ *championship.Championship) dto.ResponseWrapper {
	if champ.Finished {
		return dto.WrapResponse(dto.RESP_CHAMP_FINISHED, RoundEventOf(champ))
	}

	return dto.WrapResponse(dto.RESP_ROUND_STARTED, RoundEventOf(champ))
}

func toRecord(champ *championship.Championship) (storage.ChampionshipRecord, error) {
	data, err := json.Marshal(champ)
	if err != nil {
		return storage.ChampionshipRecord{}, fmt.Errorf("encode championship: %w", err)
	}

	return storage.ChampionshipRecord{
		ID:        champ.ID,
		Name:      champ.Name,
		Type:      champ.Type,
		Finished:  champ.Finished,
		Data:      data,
		CreatedAt: champ.CreatedAt,
	}, nil
}

func fromRecord(rec storage.ChampionshipRecord) (*championship.Championship, error) {
	var champ championship.Championship
	if err := json.Unmarshal(rec.Data, &champ); err != nil {
		return nil, fmt.Errorf("decode championship %s: %w", rec.ID, err)
	}

	return &champ, nil
}
