// Package storage defines the persistence contract for championships.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// ChampionshipRecord is one persisted championship. Data holds the encoded
// championship state.
type ChampionshipRecord struct {
	ID        string
	Name      string
	Type      string
	Finished  bool
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChampionshipStore interface {
	Create(ctx context.Context, rec ChampionshipRecord) error
	Update(ctx context.Context, rec ChampionshipRecord) error
	Get(ctx context.Context, id string) (ChampionshipRecord, error)
	List(ctx context.Context) ([]ChampionshipRecord, error)
	Close() error
}
