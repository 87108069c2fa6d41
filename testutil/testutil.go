package testutil

import (
	"math"
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/segmerge/model"
)

// Categories is the label pool used by Mergelist.
var Categories = []string{"", "neuron", "mito", "glia", "axon"}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Coordinate returns a position with every axis in [0, extent).
func (r *RNG) Coordinate(extent int) model.Coordinate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.coordinateLocked(extent)
}

func (r *RNG) coordinateLocked(extent int) model.Coordinate {
	return model.Coordinate{X: r.rand.Intn(extent), Y: r.rand.Intn(extent), Z: r.rand.Intn(extent)}
}

// SubobjectIDs returns n distinct ids in [1, maxID] in ascending order.
// Ids are Zipf distributed with skew s, so low ids are shared by many
// objects the way large supervoxels are in real segmentations.
// n is clamped to maxID.
func (r *RNG) SubobjectIDs(n int, maxID int, s float64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subobjectIDsLocked(n, maxID, s)
}

func (r *RNG) subobjectIDsLocked(n int, maxID int, s float64) []uint64 {
	n = min(n, maxID)

	seen := make(map[uint64]struct{}, n)
	out := make([]uint64, 0, n)
	for len(out) < n {
		var id uint64
		if len(seen) < maxID/2 {
			id = uint64(r.zipfLocked(maxID, s)) + 1
		} else {
			id = uint64(r.rand.Intn(maxID)) + 1
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	slices.Sort(out)
	return out
}

// Mergelist returns the canonical text of objects entries with ids
// 1..objects. Every object has between 1 and maxSubobjects subobjects drawn
// from [1, maxID].
func (r *RNG) Mergelist(objects, maxSubobjects, maxID int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sb strings.Builder
	for id := 1; id <= objects; id++ {
		sb.WriteString(strconv.Itoa(id))
		sb.WriteString(flag(r.rand.Intn(3) == 0))
		sb.WriteString(flag(r.rand.Intn(5) == 0))
		for _, sub := range r.subobjectIDsLocked(1+r.rand.Intn(maxSubobjects), maxID, 1.2) {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatUint(sub, 10))
		}
		sb.WriteByte('\n')

		c := r.coordinateLocked(1024)
		sb.WriteString(strconv.Itoa(c.X) + " " + strconv.Itoa(c.Y) + " " + strconv.Itoa(c.Z))
		if r.rand.Intn(4) == 0 {
			rgb := model.RGB{R: uint8(r.rand.Intn(256)), G: uint8(r.rand.Intn(256)), B: uint8(r.rand.Intn(256))}
			sb.WriteString(" " + rgb.String())
		}
		sb.WriteByte('\n')

		sb.WriteString(Categories[r.rand.Intn(len(Categories))])
		sb.WriteByte('\n')
		if r.rand.Intn(2) == 0 {
			sb.WriteString("note " + strconv.Itoa(id))
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func flag(v bool) string {
	if v {
		return " 1"
	}
	return " 0"
}

// Labels returns edge³ voxel labels drawn from ids, with a share of
// background (0) voxels.
func (r *RNG) Labels(edge int, ids []uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint64, edge*edge*edge)
	for i := range out {
		if len(ids) == 0 || r.rand.Intn(8) == 0 {
			continue
		}
		out[i] = ids[r.rand.Intn(len(ids))]
	}
	return out
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}
