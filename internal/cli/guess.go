package cli

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/lectern/internal/game"
)

// guessResult is the structured summary of a finished round.
type guessResult struct {
	Won      bool           `json:"won" yaml:"won"`
	Target   int            `json:"target" yaml:"target"`
	Attempts []game.Attempt `json:"attempts" yaml:"attempts"`
}

func newGuessCmd(a *app) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "guess",
		Short: "Play the number guessing game",
		Long: fmt.Sprintf(`Guess a secret number between %d and %d in at most %d tries. Guesses
are read one per line from standard input.`, game.Min, game.Max, game.MaxGuesses),
		Args:        noArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var r *rand.Rand
			if cmd.Flags().Changed("seed") {
				r = rand.New(rand.NewPCG(seed, seed))
			}
			g := game.New(r)
			prompts := a.err
			if a.flags.output == outputText {
				prompts = a.out
			}
			play(g, a.in, prompts)
			res := guessResult{Won: g.Won(), Target: g.Target(), Attempts: g.History()}
			return a.render(res, func(w io.Writer) error {
				var err error
				switch {
				case res.Won:
					_, err = fmt.Fprintf(w, "You got it in %d guess(es).\n", len(res.Attempts))
				case g.Finished():
					_, err = fmt.Fprintf(w, "Out of guesses. The number was %d.\n", res.Target)
				default:
					_, err = fmt.Fprintf(w, "Game abandoned. The number was %d.\n", res.Target)
				}
				return err
			})
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the secret for a repeatable game")
	return cmd
}

// play reads guesses from r until the game is finished or input ends.
func play(g *game.Game, r io.Reader, w io.Writer) {
	sc := bufio.NewScanner(r)
	fmt.Fprintf(w, "Guess a number between %d and %d (%d tries).\n", game.Min, game.Max, g.Remaining())
	for !g.Finished() && sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(w, "%q is not a number.\n", text)
			continue
		}
		v, err := g.Guess(n)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if v == game.Correct {
			fmt.Fprintln(w, "Correct!")
			continue
		}
		fmt.Fprintf(w, "%d is %s, %d left.\n", n, v, g.Remaining())
	}
}
