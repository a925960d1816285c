// Package game implements the number guessing round: a secret between Min
// and Max, at most MaxGuesses attempts.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Game bounds.
const (
	Min        = 1
	Max        = 100
	MaxGuesses = 10
)

// Errors returned by Guess.
var (
	ErrOutOfRange = errors.New("guess out of range")
	ErrFinished   = errors.New("game is finished")
)

// Verdict is the answer to one guess.
type Verdict string

const (
	TooLow  Verdict = "too low"
	TooHigh Verdict = "too high"
	Correct Verdict = "correct"
)

// Attempt is one recorded guess.
type Attempt struct {
	Guess   int     `json:"guess" yaml:"guess"`
	Verdict Verdict `json:"verdict" yaml:"verdict"`
}

// Game is a single round. It is not safe for concurrent use.
type Game struct {
	target  int
	history []Attempt
}

// New starts a round with a target drawn from r. A nil r uses the global
// source.
func New(r *rand.Rand) *Game {
	n := Max - Min + 1
	var v int
	if r == nil {
		v = rand.IntN(n)
	} else {
		v = r.IntN(n)
	}
	return NewWithTarget(Min + v)
}

// NewWithTarget starts a round with a known target.
func NewWithTarget(target int) *Game {
	return &Game{target: target}
}

// Guess scores n. Out-of-range guesses are rejected without using a turn.
func (g *Game) Guess(n int) (Verdict, error) {
	if g.Finished() {
		return "", ErrFinished
	}
	if n < Min || n > Max {
		return "", fmt.Errorf("%w: %d not in %d..%d", ErrOutOfRange, n, Min, Max)
	}
	v := Correct
	switch {
	case n < g.target:
		v = TooLow
	case n > g.target:
		v = TooHigh
	}
	g.history = append(g.history, Attempt{Guess: n, Verdict: v})
	return v, nil
}

// Won reports whether the last guess was correct.
func (g *Game) Won() bool {
	return len(g.history) > 0 && g.history[len(g.history)-1].Verdict == Correct
}

// Finished reports whether the round is won or out of guesses.
func (g *Game) Finished() bool {
	return g.Won() || len(g.history) >= MaxGuesses
}

// Remaining returns the guesses left.
func (g *Game) Remaining() int {
	if g.Won() {
		return 0
	}
	return MaxGuesses - len(g.history)
}

// History returns a copy of the attempts so far.
func (g *Game) History() []Attempt {
	return append([]Attempt(nil), g.history...)
}

// Target reveals the secret. Callers show it once the round is finished.
func (g *Game) Target() int { return g.target }
