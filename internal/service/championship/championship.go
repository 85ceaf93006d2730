// Package championship holds the tournament rules: players, rounds,
// pairings, results and standings for Swiss and single elimination events.
package championship

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"time"
)

var (
	ErrUnknownType     = errors.New("unknown championship type")
	ErrDuplicatePlayer = errors.New("player already registered")
	ErrUnknownPlayer   = errors.New("player not registered")
	ErrNotPaired       = errors.New("players are not paired in the current round")
	ErrAlreadyReported = errors.New("result already reported")
	ErrFinished        = errors.New("championship is finished")
	ErrNotStarted      = errors.New("championship has not started")
	ErrRoundIncomplete = errors.New("current round still has unreported matches")
)

// Shuffler reorders n items through swap, as rand.Shuffle does.
type Shuffler func(n int, swap func(i, j int))

func ValidType(champType string) bool {
	return champType == TYPE_SWISS || champType == TYPE_SINGLE_ELIMINATION
}

func New(id, name, champType string, points Points) (*Championship, error) {
	if !ValidType(champType) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, champType)
	}

	return &Championship{
		ID:        id,
		Name:      name,
		Type:      champType,
		Points:    points,
		Players:   make([]*Player, 0),
		Active:    make([]string, 0),
		Removed:   make([]string, 0),
		Rounds:    make([]Round, 0),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SetShuffler replaces the random shuffle used for the first elimination
// round.
func (c *Championship) SetShuffler(s Shuffler) {
	c.shuffle = s
}

func (c *Championship) Player(name string) *Player {
	for _, p := range c.Players {
		if p.Name == name {
			return p
		}
	}

	return nil
}

func (c *Championship) AddPlayer(name, number string) error {
	if c.Player(name) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicatePlayer, name)
	}

	c.Players = append(c.Players, &Player{
		Name:   name,
		Number: number,
	})
	c.Active = append(c.Active, name)

	return nil
}

// RemovePlayer moves an active player to the removed list.
func (c *Championship) RemovePlayer(name string) error {
	idx := slices.Index(c.Active, name)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, name)
	}

	c.Active = slices.Delete(c.Active, idx, idx+1)
	c.Removed = append(c.Removed, name)

	return nil
}

// CurrentRound returns the latest round, or nil before the first one.
func (c *Championship) CurrentRound() *Round {
	if len(c.Rounds) == 0 {
		return nil
	}

	return &c.Rounds[len(c.Rounds)-1]
}

// RoundNumber is 0 before the first round.
func (c *Championship) RoundNumber() int {
	return len(c.Rounds)
}

// Pairings returns the pairings still to be played this round.
func (c *Championship) Pairings() []Pairing {
	r := c.CurrentRound()
	if r == nil || c.Finished {
		return nil
	}

	return r.Pairings
}

// RecordResult stores the score of a current round pairing and awards points.
func (c *Championship) RecordResult(p1, p2 string, s1, s2 int) error {
	if c.Finished {
		return ErrFinished
	}

	r := c.CurrentRound()
	if r == nil {
		return ErrNotStarted
	}

	paired := false
	for _, pr := range r.Pairings {
		if (pr.Player1 == p1 && pr.Player2 == p2) || (pr.Player1 == p2 && pr.Player2 == p1) {
			paired = true
			break
		}
	}
	if !paired {
		return fmt.Errorf("%w: %q vs %q", ErrNotPaired, p1, p2)
	}

	for _, res := range r.Results {
		if samePair(res.Player1, res.Player2, p1, p2) {
			return fmt.Errorf("%w: %q vs %q", ErrAlreadyReported, p1, p2)
		}
	}

	player1, player2 := c.Player(p1), c.Player(p2)

	switch {
	case s1 > s2:
		player1.Score += c.Points.Win
		player2.Score += c.Points.Lose
	case s1 < s2:
		player1.Score += c.Points.Lose
		player2.Score += c.Points.Win
	default:
		player1.Score += c.Points.Draw
		player2.Score += c.Points.Draw
	}

	r.Results = append(r.Results, MatchResult{
		Player1: p1,
		Player2: p2,
		Score1:  s1,
		Score2:  s2,
	})

	return nil
}

// RoundComplete reports whether every pairing of the current round has a result.
func (c *Championship) RoundComplete() bool {
	r := c.CurrentRound()
	if r == nil {
		return true
	}

	return len(r.Results) >= len(r.Pairings)
}

// NextRound opens a new round with fresh pairings. When no pairing can be
// made the round is left empty and the championship is finished.
func (c *Championship) NextRound() error {
	if c.Finished {
		return ErrFinished
	}

	if !c.RoundComplete() {
		return ErrRoundIncomplete
	}

	var (
		pairings []Pairing
		bye      string
		err      error
	)

	switch c.Type {
	case TYPE_SWISS:
		pairings, bye = c.swissPairings()
	case TYPE_SINGLE_ELIMINATION:
		pairings, bye, err = c.eliminationPairings()
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
	if err != nil {
		return err
	}

	if pairings == nil {
		pairings = make([]Pairing, 0)
	}

	c.Rounds = append(c.Rounds, Round{
		Number:   len(c.Rounds) + 1,
		Pairings: pairings,
		Results:  make([]MatchResult, 0),
		Bye:      bye,
	})

	if len(pairings) == 0 {
		c.Finished = true
	}

	return nil
}

// Standings ranks every registered player by score. Equal scores share a
// rank and keep registration order.
func (c *Championship) Standings() []Standing {
	players := slices.Clone(c.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})

	out := make([]Standing, 0, len(players))
	for i, p := range players {
		rank := i + 1
		if i > 0 && p.Score == players[i-1].Score {
			rank = out[i-1].Rank
		}

		out = append(out, Standing{
			Rank:   rank,
			Name:   p.Name,
			Number: p.Number,
			Score:  p.Score,
		})
	}

	return out
}

func (c *Championship) shuffler() Shuffler {
	if c.shuffle != nil {
		return c.shuffle
	}

	return rand.Shuffle
}

func samePair(a1, a2, b1, b2 string) bool {
	return (a1 == b1 && a2 == b2) || (a1 == b2 && a2 == b1)
}

func pairConsecutive(names []string) ([]Pairing, string) {
	pairings := make([]Pairing, 0, len(names)/2)
	for i := 0; i+1 < len(names); i += 2 {
		pairings = append(pairings, Pairing{Player1: names[i], Player2: names[i+1]})
	}

	bye := ""
	if len(names)%2 == 1 {
		bye = names[len(names)-1]
	}

	return pairings, bye
}
