// Pool filtering and sampling helpers consumed by the adaptive path engine.
package selection

import (
	"math"
	"math/rand"

	"mathlearn-service/internal/models"
)

// FilterByDifficulty returns the questions whose difficulty matches
// exactly, preserving pool order.
func FilterByDifficulty(pool []models.Question, difficulty string) []models.Question {
	var out []models.Question
	for _, q := range pool {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}

// SampleSize computes ceil(n * ratio), clamped to [1, n] for non-empty
// pools so a positive ratio never produces an empty block.
func SampleSize(n int, ratio float64) int {
	if n == 0 {
		return 0
	}
	size := int(math.Ceil(float64(n) * ratio))
	if size < 1 {
		size = 1
	}
	if size > n {
		size = n
	}
	return size
}

// Sample draws SampleSize(len(pool), ratio) questions uniformly at random
// without replacement.
func Sample(rng *rand.Rand, pool []models.Question, ratio float64) []models.Question {
	n := SampleSize(len(pool), ratio)
	if n == 0 {
		return nil
	}
	picked := make([]models.Question, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		picked = append(picked, pool[i])
	}
	return picked
}

// Mix builds the recovery block: a sample of the medium pool and a sample
// of the easy pool, each sized against its own pool, concatenated and
// shuffled.
func Mix(rng *rand.Rand, medium, easy []models.Question, mediumRatio, easyRatio float64) []models.Question {
	mixed := append(Sample(rng, medium, mediumRatio), Sample(rng, easy, easyRatio)...)
	rng.Shuffle(len(mixed), func(i, j int) {
		mixed[i], mixed[j] = mixed[j], mixed[i]
	})
	return mixed
}
