package adaptive

import "mathlearn-service/internal/models"

type Stage string

const (
	StageInitial   Stage = "initial"
	StageMedium    Stage = "medium"
	StageEasy      Stage = "easy"
	StageHard      Stage = "hard"
	StageMixed     Stage = "mixed"
	StageCompleted Stage = "completed"
)

// Level labels shown to the student. The level trails the stage: it names
// the difficulty of the block most recently served.
const (
	LevelEasy   = models.DifficultyEasy
	LevelMedium = models.DifficultyMedium
	LevelHard   = models.DifficultyHard
	LevelMixed  = "Mixed"
)

// PathState is one student's position on the adaptive ladder. The engine
// never stores it; callers persist it between calls.
type PathState struct {
	Stage Stage  `bson:"stage" json:"stage"`
	Level string `bson:"level" json:"level"`
}

// Report is the terminal recommendation for a path.
type Report struct {
	Message      string  `json:"message"`
	ScorePercent float64 `json:"score_percent"`
	Path         string  `json:"path"`
}

// Config holds the branching thresholds and sampling ratios.
type Config struct {
	PassThreshold    float64 `json:"pass_threshold"`
	SampleRatio      float64 `json:"sample_ratio"`
	MixedMediumRatio float64 `json:"mixed_medium_ratio"`
	MixedEasyRatio   float64 `json:"mixed_easy_ratio"`
}

func DefaultConfig() *Config {
	return &Config{
		PassThreshold:    65.0,
		SampleRatio:      0.75,
		MixedMediumRatio: 0.25,
		MixedEasyRatio:   0.75,
	}
}

// NewPathState returns a fresh path at the start of the ladder.
func NewPathState() *PathState {
	return &PathState{
		Stage: StageInitial,
		Level: LevelMedium,
	}
}
