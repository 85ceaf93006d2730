package championship

import (
	"fmt"
	"slices"
	"sort"
)

// eliminationPairings drops the losers of the last round and pairs the
// remaining players in order. The first round is drawn at random.
func (c *Championship) eliminationPairings() ([]Pairing, string, error) {
	r := c.CurrentRound()
	if r == nil {
		c.shuffler()(len(c.Active), func(i, j int) {
			c.Active[i], c.Active[j] = c.Active[j], c.Active[i]
		})

		pairings, bye := pairConsecutive(c.Active)
		return pairings, bye, nil
	}

	for _, res := range r.Results {
		// a draw knocks out the first-listed player
		loser := res.Player1
		if res.Score1 > res.Score2 {
			loser = res.Player2
		}

		if err := c.RemovePlayer(loser); err != nil {
			return nil, "", fmt.Errorf("eliminate %q: %w", loser, err)
		}
	}

	if len(c.Active) < 2 {
		return nil, "", nil
	}

	pairings, bye := pairConsecutive(c.Active)
	return pairings, bye, nil
}

// swissPairings pairs players of similar score who have not met yet. With
// an odd field the lowest ranked player without a previous bye sits out.
func (c *Championship) swissPairings() ([]Pairing, string) {
	ranked := c.rankedActive()
	if len(ranked) < 2 {
		return nil, ""
	}

	played := c.playedPairs()

	if len(ranked)%2 == 0 {
		pairings, ok := matchUnplayed(ranked, played)
		if !ok {
			return nil, ""
		}
		return pairings, ""
	}

	hadBye := make(map[string]bool)
	for _, r := range c.Rounds {
		if r.Bye != "" {
			hadBye[r.Bye] = true
		}
	}

	candidates := make([]string, 0, len(ranked))
	for i := len(ranked) - 1; i >= 0; i-- {
		if !hadBye[ranked[i]] {
			candidates = append(candidates, ranked[i])
		}
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		if hadBye[ranked[i]] {
			candidates = append(candidates, ranked[i])
		}
	}

	for _, bye := range candidates {
		idx := slices.Index(ranked, bye)
		rest := slices.Delete(slices.Clone(ranked), idx, idx+1)

		if pairings, ok := matchUnplayed(rest, played); ok {
			return pairings, bye
		}
	}

	return nil, ""
}

// rankedActive orders active players by score, keeping registration order
// among equal scores.
func (c *Championship) rankedActive() []string {
	order := make(map[string]int, len(c.Players))
	score := make(map[string]int, len(c.Players))
	for i, p := range c.Players {
		order[p.Name] = i
		score[p.Name] = p.Score
	}

	ranked := slices.Clone(c.Active)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if score[a] != score[b] {
			return score[a] > score[b]
		}
		return order[a] < order[b]
	})

	return ranked
}

func (c *Championship) playedPairs() map[string]bool {
	played := make(map[string]bool)
	for _, r := range c.Rounds {
		for _, p := range r.Pairings {
			played[pairKey(p.Player1, p.Player2)] = true
		}
	}

	return played
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}

	return a + "\x00" + b
}

// matchUnplayed pairs every name with a new opponent, taking the closest
// ranked opponent that still leaves the rest of the field pairable.
func matchUnplayed(names []string, played map[string]bool) ([]Pairing, bool) {
	if !pairable(names, played) {
		return nil, false
	}

	pairings := make([]Pairing, 0, len(names)/2)
	rest := names
	for len(rest) > 0 {
		first := rest[0]
		var next []string

		for j := 1; j < len(rest); j++ {
			if played[pairKey(first, rest[j])] {
				continue
			}

			remaining := make([]string, 0, len(rest)-2)
			remaining = append(remaining, rest[1:j]...)
			remaining = append(remaining, rest[j+1:]...)

			if pairable(remaining, played) {
				pairings = append(pairings, Pairing{Player1: first, Player2: rest[j]})
				next = remaining
				break
			}
		}

		// some opponent always fits once the whole field is pairable
		if next == nil {
			return nil, false
		}
		rest = next
	}

	return pairings, true
}

// pairable reports whether names can all be paired with opponents they have
// not met before.
func pairable(names []string, played map[string]bool) bool {
	adj := make([][]bool, len(names))
	for i := range adj {
		adj[i] = make([]bool, len(names))
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if !played[pairKey(names[i], names[j])] {
				adj[i][j] = true
				adj[j][i] = true
			}
		}
	}

	return hasPerfectMatching(adj)
}
