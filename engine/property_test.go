package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/segmerge/model"
)

// TestRandomOperationsKeepInvariants drives the store with random
// create/select/merge/unmerge/remove sequences and checks the graph after
// every step.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7919))
		s := New()

		for step := 0; step < 400; step++ {
			op := rng.IntN(10)
			n := uint64(s.ObjectCount())

			switch {
			case op < 3 || n == 0:
				ids := make([]uint64, 1+rng.IntN(4))
				for i := range ids {
					ids[i] = uint64(rng.IntN(60))
				}
				_, err := s.CreateObject(model.Coordinate{X: step}, ids, WithImmutable(rng.IntN(4) == 0), WithTodo(rng.IntN(3) == 0))
				if err != nil {
					require.ErrorIs(t, err, ErrAlreadyContained)
				}
			case op == 3:
				s.SelectObject(uint64(rng.IntN(int(n))))
			case op == 4:
				s.UnselectObject(uint64(rng.IntN(int(n))))
			case op == 5:
				s.MergeActive()
			case op == 6:
				s.Unmerge(uint64(rng.IntN(int(n))), uint64(rng.IntN(int(n))), model.Coordinate{})
			case op == 7:
				s.RemoveObject(uint64(rng.IntN(int(n))))
			case op == 8:
				s.UnmergeSelected(model.Coordinate{Y: step})
			default:
				s.ActivateObject(uint64(rng.IntN(int(n))))
			}

			require.NoError(t, s.CheckInvariants(), "seed %d step %d op %d", seed, step, op)
		}
	}
}
