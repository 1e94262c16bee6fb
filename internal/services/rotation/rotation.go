// Package rotation selects the deterministic weekly stock sample shown
// to free-tier users.
package rotation

import (
	"math"
	"sort"
	"time"

	"github.com/norteacoes/vista/internal/models"
)

const (
	// Ranks 1-15 are withheld from free users entirely; the sample is
	// drawn from ranks 16-50.
	poolStart = 15
	poolEnd   = 50

	sampleSize = 3
)

// WeekSeed derives the shuffle seed from the calendar week of now.
// The week index is floor((dayOfYear + startOfYearWeekday) / 7), which
// is what keeps the sample stable across reloads within one week and
// rotates it at the boundary. Not true ISO 8601, and must not be
// corrected: every render of the same week has to agree on the seed.
func WeekSeed(now time.Time) int {
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	week := (now.YearDay() + int(startOfYear.Weekday())) / 7
	return now.Year()*100 + week
}

// key is a deterministic pseudo-random value for index i under seed.
// Stability across renders is the requirement, not distribution quality.
func key(seed, i int) float64 {
	v := math.Sin(float64(seed+i)) * 10000
	return v - math.Floor(v)
}

// SelectFreeSample picks up to three stocks from ranks 16-50 of the
// ranked list, shuffled deterministically by the calendar week of now.
// A list too short to have that range falls back to the head of the
// list; a partial range yields a partial sample, never a fabricated one.
func SelectFreeSample(ranked []*models.StockRecord, now time.Time) []*models.StockRecord {
	if len(ranked) <= poolStart {
		if len(ranked) > sampleSize {
			return ranked[:sampleSize]
		}
		return ranked
	}

	end := poolEnd
	if end > len(ranked) {
		end = len(ranked)
	}
	pool := ranked[poolStart:end]

	seed := WeekSeed(now)
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return key(seed, idx[a]) < key(seed, idx[b])
	})

	n := sampleSize
	if n > len(pool) {
		n = len(pool)
	}
	sample := make([]*models.StockRecord, n)
	for i := 0; i < n; i++ {
		sample[i] = pool[idx[i]]
	}
	return sample
}
