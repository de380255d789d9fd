package adaptive

import (
	"math/rand"
	"sync"
	"time"

	"mathlearn-service/internal/models"
	"mathlearn-service/internal/selection"
)

// Engine decides which block of questions to serve next from a fixed pool,
// purely from the caller's path state and latest score. A seedable random
// source is injected so block selection can be made deterministic in tests.
// One engine serves every session; rand.Rand is not safe for concurrent
// use, so draws are serialized through mu.
type Engine struct {
	cfg *Config
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a path engine. A nil config uses the defaults; a nil
// rng uses a time-seeded source.
func NewEngine(cfg *Config, rng *rand.Rand) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg, rng: rng}
}

// ScorePercentage guards the zero-attempt division.
func ScorePercentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// NextQuestions advances the path state and returns the next block. Empty
// pools never fail; the path degrades to Completed with an empty block.
// Stages without a defined transition (Mixed included) are terminal for
// advancement and also resolve to Completed.
func (e *Engine) NextQuestions(state *PathState, pool []models.Question, score, attempted int) []models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	scorePct := ScorePercentage(score, attempted)

	switch state.Stage {
	case StageInitial:
		medium := selection.FilterByDifficulty(pool, models.DifficultyMedium)
		if len(medium) == 0 {
			state.Stage = StageCompleted
			return nil
		}
		state.Stage = StageMedium
		state.Level = LevelMedium
		return selection.Sample(e.rng, medium, e.cfg.SampleRatio)

	case StageMedium:
		if scorePct >= e.cfg.PassThreshold {
			hard := selection.FilterByDifficulty(pool, models.DifficultyHard)
			if len(hard) == 0 {
				state.Stage = StageCompleted
				return nil
			}
			state.Stage = StageHard
			state.Level = LevelHard
			return selection.Sample(e.rng, hard, e.cfg.SampleRatio)
		}
		easy := selection.FilterByDifficulty(pool, models.DifficultyEasy)
		if len(easy) == 0 {
			state.Stage = StageCompleted
			return nil
		}
		state.Stage = StageEasy
		state.Level = LevelEasy
		return selection.Sample(e.rng, easy, e.cfg.SampleRatio)

	case StageHard:
		if scorePct < e.cfg.PassThreshold {
			medium := selection.FilterByDifficulty(pool, models.DifficultyMedium)
			easy := selection.FilterByDifficulty(pool, models.DifficultyEasy)
			if len(medium) == 0 || len(easy) == 0 {
				state.Stage = StageCompleted
				return nil
			}
			state.Stage = StageMixed
			state.Level = LevelMixed
			return selection.Mix(e.rng, medium, easy, e.cfg.MixedMediumRatio, e.cfg.MixedEasyRatio)
		}
		// Passed Hard: the ladder is done.
		state.Stage = StageCompleted
		return nil
	}

	state.Stage = StageCompleted
	return nil
}

// IsCompleted reports whether the path reached its terminal stage.
func (e *Engine) IsCompleted(state *PathState) bool {
	return state.Stage == StageCompleted
}

// Reset returns the path to the start of the ladder.
func (e *Engine) Reset(state *PathState) {
	state.Stage = StageInitial
	state.Level = LevelMedium
}

// GenerateReport maps (stage, level at completion, pass/fail) to the
// recommendation shown on the result screen. Unknown combinations fall
// through to the incomplete prompt.
func (e *Engine) GenerateReport(state *PathState, finalScore, totalQuestions int) *Report {
	scorePct := ScorePercentage(finalScore, totalQuestions)
	passed := scorePct >= e.cfg.PassThreshold

	switch state.Stage {
	case StageCompleted:
		switch state.Level {
		case LevelMixed:
			if passed {
				return &Report{
					Message:      "Good recovery! You're strong at Mixed level (combination of Easy and Medium questions) but need focused practice on Hard level questions before moving to the next topic.",
					ScorePercent: scorePct,
					Path:         "Completed - Mixed Level",
				}
			}
			return &Report{
				Message:      "Continue practicing with Mixed level questions (combination of Easy and Medium) to build confidence before attempting Hard level again.",
				ScorePercent: scorePct,
				Path:         "Completed - Practice Needed",
			}
		case LevelHard:
			if passed {
				return &Report{
					Message:      "Excellent! You've shown strong understanding through Hard level. You're ready for the next topic.",
					ScorePercent: scorePct,
					Path:         "Completed Successfully",
				}
			}
			return &Report{
				Message:      "You need more practice with Hard level questions before moving forward.",
				ScorePercent: scorePct,
				Path:         "Completed - Practice Needed",
			}
		}

	case StageMixed:
		if passed {
			return &Report{
				Message:      "Good progress! You're handling Mixed level questions well. Keep practicing Hard level questions to improve further.",
				ScorePercent: scorePct,
				Path:         "Mixed Level Success",
			}
		}
		return &Report{
			Message:      "Continue practicing with Mixed level questions to build confidence before returning to Hard level.",
			ScorePercent: scorePct,
			Path:         "Mixed Level - Practice Needed",
		}

	case StageHard:
		if passed {
			return &Report{
				Message:      "Excellent! You've mastered all difficulty levels. Ready for advanced topics.",
				ScorePercent: scorePct,
				Path:         "Hard Level Success",
			}
		}
		return &Report{
			Message:      "Moving you to Mixed level questions for additional practice before attempting full Hard level again.",
			ScorePercent: scorePct,
			Path:         "Hard Level - Practice Needed",
		}

	case StageMedium:
		if passed {
			return &Report{
				Message:      "Great work! You've shown strong understanding at Medium level. Moving to Hard level questions.",
				ScorePercent: scorePct,
				Path:         "Medium Level Success",
			}
		}
		return &Report{
			Message:      "You need more practice with Medium level questions before moving to harder topics.",
			ScorePercent: scorePct,
			Path:         "Medium Level - Practice Needed",
		}

	case StageEasy:
		if passed {
			return &Report{
				Message:      "Good progress! You're ready to move up to Medium level questions.",
				ScorePercent: scorePct,
				Path:         "Easy Level Success",
			}
		}
		return &Report{
			Message:      "Keep practicing Easy level questions to build a strong foundation.",
			ScorePercent: scorePct,
			Path:         "Easy Level - Practice Needed",
		}
	}

	return &Report{
		Message:      "Complete the quiz to receive personalized recommendations for your learning path.",
		ScorePercent: scorePct,
		Path:         "Incomplete",
	}
}
