package recommend

import (
	"hash/fnv"
	"math/rand"

	"github.com/justestif/go-mood-journal/internal/mood"
)

// DeterministicFeatures derives stable pseudo features from a track id.
// Catalogs use it when no audio analysis is available for a track so that
// the same track always ranks the same way.
func DeterministicFeatures(trackID string) mood.Features {
	hasher := fnv.New32a()
	_, _ = hasher.Write([]byte(trackID))
	rng := rand.New(rand.NewSource(int64(hasher.Sum32())))

	between := func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}

	return mood.Features{
		Energy:  between(0.1, 0.9),
		Valence: between(0.1, 0.9),
	}
}
