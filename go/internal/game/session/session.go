package session

import (
	"math/rand/v2"
	"sync"

	"github.com/granbuda/bingo/go/internal/game/cards"
)

// maxBalls is the size of the ball pool [1,75].
const maxBalls = 75

// Session holds the state of one game: joined players in insertion order,
// their cards, the drawn balls and the over flag. Every read-modify-write on
// that state goes through the session's own mutex, so concurrent joins,
// leaves and draws on the same session never interleave.
type Session struct {
	id string

	mu       sync.Mutex
	players  []string
	cards    map[string]cards.Card
	drawn    []int
	drawnSet map[int]struct{}
	over     bool
}

func newSession(id string) *Session {
	return &Session{
		id:       id,
		cards:    make(map[string]cards.Card),
		drawnSet: make(map[int]struct{}),
	}
}

// ID returns the registry key of this session.
func (s *Session) ID() string {
	return s.id
}

// Join appends the player and assigns it a card produced by newCard, all
// under the session lock so a racing duplicate join allocates exactly one
// card. The second return is false when the player was already present or
// the game is over.
func (s *Session) Join(player string, newCard func() cards.Card) (cards.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return cards.Card{}, false
	}
	if _, present := s.cards[player]; present {
		return cards.Card{}, false
	}
	card := newCard()
	s.players = append(s.players, player)
	s.cards[player] = card
	return card, true
}

// Leave removes the player and discards its card. Returns false if absent.
func (s *Session) Leave(player string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, present := s.cards[player]; !present {
		return false
	}
	delete(s.cards, player)
	for i, p := range s.players {
		if p == player {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
	return true
}

// PlayerCount returns the number of joined players.
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// Players returns a copy of the player list in join order.
func (s *Session) Players() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.players))
	copy(out, s.players)
	return out
}

// CardFor returns the player's card, if any.
func (s *Session) CardFor(player string) (cards.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[player]
	return card, ok
}

// DrawnBalls returns a copy of the drawn balls in draw order.
func (s *Session) DrawnBalls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.drawn))
	copy(out, s.drawn)
	return out
}

// DrawnSet returns a copy of the drawn balls as a set.
func (s *Session) DrawnSet() map[int]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]struct{}, len(s.drawnSet))
	for b := range s.drawnSet {
		out[b] = struct{}{}
	}
	return out
}

// Snapshot returns the drawn balls together with the player's card in a
// single critical section, for state sync after a reconnect.
func (s *Session) Snapshot(player string) (balls []int, card cards.Card, hasCard bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balls = make([]int, len(s.drawn))
	copy(balls, s.drawn)
	card, hasCard = s.cards[player]
	return balls, card, hasCard
}

// DrawBall samples a fresh ball from [1,75] by rejection sampling under the
// session lock, appends it and returns it. Manual and scheduled draws share
// this path, so they cannot race into duplicate balls.
func (s *Session) DrawBall() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.over {
		return 0, ErrGameOver
	}
	if len(s.drawn) >= maxBalls {
		return 0, ErrBallsExhausted
	}
	for {
		ball := rand.IntN(maxBalls) + 1
		if _, dup := s.drawnSet[ball]; dup {
			continue
		}
		s.drawn = append(s.drawn, ball)
		s.drawnSet[ball] = struct{}{}
		return ball, nil
	}
}

// Over reports whether the game has finished.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// End marks the game over and clears players, cards and drawn balls. It is
// idempotent.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.over = true
	s.players = nil
	s.cards = make(map[string]cards.Card)
	s.drawn = nil
	s.drawnSet = make(map[int]struct{})
}
