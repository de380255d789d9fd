package adaptive

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"mathlearn-service/internal/models"
)

func testPool(easy, medium, hard int) []models.Question {
	var pool []models.Question
	add := func(difficulty string, n int) {
		for i := 0; i < n; i++ {
			pool = append(pool, models.Question{
				ID:         fmt.Sprintf("%s-%d", difficulty, i),
				Difficulty: difficulty,
			})
		}
	}
	add(models.DifficultyEasy, easy)
	add(models.DifficultyMedium, medium)
	add(models.DifficultyHard, hard)
	return pool
}

func seededEngine(seed int64) *Engine {
	return NewEngine(nil, rand.New(rand.NewSource(seed)))
}

func assertAllDifficulty(t *testing.T, block []models.Question, difficulty string) {
	t.Helper()
	for _, q := range block {
		if q.Difficulty != difficulty {
			t.Errorf("question %q has difficulty %q, want %q", q.ID, q.Difficulty, difficulty)
		}
	}
}

func TestScorePercentage(t *testing.T) {
	tests := []struct {
		name  string
		score int
		total int
		want  float64
	}{
		{"zero total", 3, 0, 0},
		{"negative total", 1, -1, 0},
		{"perfect", 4, 4, 100},
		{"partial", 2, 3, 200.0 / 3.0},
		{"zero score", 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScorePercentage(tt.score, tt.total); got != tt.want {
				t.Errorf("ScorePercentage(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
			}
		})
	}
}

func TestInitialStageServesMedium(t *testing.T) {
	engine := seededEngine(1)
	state := NewPathState()
	pool := testPool(4, 4, 4)

	block := engine.NextQuestions(state, pool, 0, 0)

	if state.Stage != StageMedium {
		t.Errorf("stage = %q, want %q", state.Stage, StageMedium)
	}
	if state.Level != LevelMedium {
		t.Errorf("level = %q, want %q", state.Level, LevelMedium)
	}
	// ceil(4 * 0.75) = 3
	if len(block) != 3 {
		t.Errorf("block size = %d, want 3", len(block))
	}
	assertAllDifficulty(t, block, models.DifficultyMedium)
}

func TestMediumPassGoesHard(t *testing.T) {
	engine := seededEngine(1)
	state := &PathState{Stage: StageMedium, Level: LevelMedium}
	pool := testPool(4, 4, 4)

	// 2/3 = 66.7% clears the 65% bar.
	block := engine.NextQuestions(state, pool, 2, 3)

	if state.Stage != StageHard {
		t.Errorf("stage = %q, want %q", state.Stage, StageHard)
	}
	if state.Level != LevelHard {
		t.Errorf("level = %q, want %q", state.Level, LevelHard)
	}
	if len(block) != 3 {
		t.Errorf("block size = %d, want 3", len(block))
	}
	assertAllDifficulty(t, block, models.DifficultyHard)
}

func TestMediumFailGoesEasy(t *testing.T) {
	engine := seededEngine(1)
	state := &PathState{Stage: StageMedium, Level: LevelMedium}
	pool := testPool(4, 4, 4)

	// 1/3 = 33.3% is below the bar.
	block := engine.NextQuestions(state, pool, 1, 3)

	if state.Stage != StageEasy {
		t.Errorf("stage = %q, want %q", state.Stage, StageEasy)
	}
	if state.Level != LevelEasy {
		t.Errorf("level = %q, want %q", state.Level, LevelEasy)
	}
	if len(block) != 3 {
		t.Errorf("block size = %d, want 3", len(block))
	}
	assertAllDifficulty(t, block, models.DifficultyEasy)
}

func TestExactThresholdPasses(t *testing.T) {
	engine := seededEngine(1)
	state := &PathState{Stage: StageMedium, Level: LevelMedium}
	pool := testPool(4, 4, 4)

	// 13/20 = 65.0% exactly; the comparison is >=.
	engine.NextQuestions(state, pool, 13, 20)

	if state.Stage != StageHard {
		t.Errorf("stage = %q, want %q", state.Stage, StageHard)
	}
}

func TestHardPassCompletes(t *testing.T) {
	engine := seededEngine(1)
	state := &PathState{Stage: StageHard, Level: LevelHard}
	pool := testPool(4, 4, 4)

	block := engine.NextQuestions(state, pool, 3, 3)

	if state.Stage != StageCompleted {
		t.Errorf("stage = %q, want %q", state.Stage, StageCompleted)
	}
	if state.Level != LevelHard {
		t.Errorf("level = %q, want %q (level keeps the last served block)", state.Level, LevelHard)
	}
	if len(block) != 0 {
		t.Errorf("block size = %d, want empty", len(block))
	}
	if !engine.IsCompleted(state) {
		t.Error("IsCompleted = false, want true")
	}
}

func TestHardFailGoesMixed(t *testing.T) {
	engine := seededEngine(1)
	state := &PathState{Stage: StageHard, Level: LevelHard}
	pool := testPool(4, 4, 4)

	block := engine.NextQuestions(state, pool, 1, 3)

	if state.Stage != StageMixed {
		t.Errorf("stage = %q, want %q", state.Stage, StageMixed)
	}
	if state.Level != LevelMixed {
		t.Errorf("level = %q, want %q", state.Level, LevelMixed)
	}
	// ceil(4*0.25) medium + ceil(4*0.75) easy
	if len(block) != 4 {
		t.Fatalf("block size = %d, want 4", len(block))
	}
	mediumCount, easyCount := 0, 0
	for _, q := range block {
		switch q.Difficulty {
		case models.DifficultyMedium:
			mediumCount++
		case models.DifficultyEasy:
			easyCount++
		default:
			t.Errorf("unexpected difficulty %q in mixed block", q.Difficulty)
		}
	}
	if mediumCount != 1 || easyCount != 3 {
		t.Errorf("mixed block has %d medium and %d easy, want 1 and 3", mediumCount, easyCount)
	}
}

func TestMixedStageIsTerminal(t *testing.T) {
	engine := seededEngine(1)
	pool := testPool(4, 4, 4)

	for _, score := range []int{0, 4} {
		state := &PathState{Stage: StageMixed, Level: LevelMixed}
		block := engine.NextQuestions(state, pool, score, 4)
		if state.Stage != StageCompleted {
			t.Errorf("score %d: stage = %q, want %q", score, state.Stage, StageCompleted)
		}
		if len(block) != 0 {
			t.Errorf("score %d: block size = %d, want empty", score, len(block))
		}
	}
}

func TestEmptyPoolDegradesToCompleted(t *testing.T) {
	engine := seededEngine(1)

	tests := []struct {
		name  string
		state PathState
		pool  []models.Question
		score int
	}{
		{"no medium at start", PathState{Stage: StageInitial, Level: LevelMedium}, testPool(4, 0, 4), 0},
		{"no hard after medium pass", PathState{Stage: StageMedium, Level: LevelMedium}, testPool(4, 4, 0), 3},
		{"no easy after medium fail", PathState{Stage: StageMedium, Level: LevelMedium}, testPool(0, 4, 4), 0},
		{"no easy for mixed", PathState{Stage: StageHard, Level: LevelHard}, testPool(0, 4, 4), 0},
		{"no medium for mixed", PathState{Stage: StageHard, Level: LevelHard}, testPool(4, 0, 4), 0},
		{"fully empty pool", PathState{Stage: StageInitial, Level: LevelMedium}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state
			block := engine.NextQuestions(&state, tt.pool, tt.score, 3)
			if state.Stage != StageCompleted {
				t.Errorf("stage = %q, want %q", state.Stage, StageCompleted)
			}
			if len(block) != 0 {
				t.Errorf("block size = %d, want empty", len(block))
			}
		})
	}
}

func TestFullLadderFailurePath(t *testing.T) {
	engine := seededEngine(5)
	state := NewPathState()
	pool := testPool(4, 4, 4)

	// initial -> medium
	block := engine.NextQuestions(state, pool, 0, 0)
	if state.Stage != StageMedium || len(block) != 3 {
		t.Fatalf("after start: stage %q, block %d", state.Stage, len(block))
	}

	// medium pass -> hard
	block = engine.NextQuestions(state, pool, 3, 3)
	if state.Stage != StageHard || len(block) != 3 {
		t.Fatalf("after medium: stage %q, block %d", state.Stage, len(block))
	}

	// hard fail -> mixed
	block = engine.NextQuestions(state, pool, 0, 3)
	if state.Stage != StageMixed || len(block) != 4 {
		t.Fatalf("after hard: stage %q, block %d", state.Stage, len(block))
	}

	// mixed -> completed regardless of score
	block = engine.NextQuestions(state, pool, 4, 4)
	if state.Stage != StageCompleted || len(block) != 0 {
		t.Fatalf("after mixed: stage %q, block %d", state.Stage, len(block))
	}
	if state.Level != LevelMixed {
		t.Errorf("final level = %q, want %q", state.Level, LevelMixed)
	}
}

func TestConcurrentSessionsShareOneEngine(t *testing.T) {
	engine := NewEngine(nil, nil)
	pool := testPool(8, 8, 8)

	// One engine serves every session in production; each request walks
	// its own path but draws from the shared random source.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := NewPathState()
			for !engine.IsCompleted(state) {
				block := engine.NextQuestions(state, pool, 3, 3)
				if engine.IsCompleted(state) {
					break
				}
				if len(block) == 0 {
					t.Errorf("empty block at stage %q before completion", state.Stage)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestReset(t *testing.T) {
	engine := seededEngine(1)
	state := &PathState{Stage: StageCompleted, Level: LevelMixed}

	engine.Reset(state)

	if state.Stage != StageInitial {
		t.Errorf("stage = %q, want %q", state.Stage, StageInitial)
	}
	if state.Level != LevelMedium {
		t.Errorf("level = %q, want %q", state.Level, LevelMedium)
	}
}

func TestDeterministicBlocksWithSameSeed(t *testing.T) {
	pool := testPool(8, 8, 8)

	run := func(seed int64) []string {
		engine := seededEngine(seed)
		state := NewPathState()
		block := engine.NextQuestions(state, pool, 0, 0)
		ids := make([]string, len(block))
		for i, q := range block {
			ids[i] = q.ID
		}
		return ids
	}

	first, second := run(99), run(99)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestGenerateReport(t *testing.T) {
	engine := seededEngine(1)

	tests := []struct {
		name     string
		state    PathState
		score    int
		total    int
		wantPath string
	}{
		{"completed hard pass", PathState{Stage: StageCompleted, Level: LevelHard}, 3, 4, "Completed Successfully"},
		{"completed hard fail", PathState{Stage: StageCompleted, Level: LevelHard}, 1, 4, "Completed - Practice Needed"},
		{"completed mixed pass", PathState{Stage: StageCompleted, Level: LevelMixed}, 3, 4, "Completed - Mixed Level"},
		{"completed mixed fail", PathState{Stage: StageCompleted, Level: LevelMixed}, 1, 4, "Completed - Practice Needed"},
		{"completed medium falls through", PathState{Stage: StageCompleted, Level: LevelMedium}, 4, 4, "Incomplete"},
		{"completed easy falls through", PathState{Stage: StageCompleted, Level: LevelEasy}, 4, 4, "Incomplete"},
		{"in-progress mixed pass", PathState{Stage: StageMixed, Level: LevelMixed}, 3, 4, "Mixed Level Success"},
		{"in-progress mixed fail", PathState{Stage: StageMixed, Level: LevelMixed}, 1, 4, "Mixed Level - Practice Needed"},
		{"in-progress hard pass", PathState{Stage: StageHard, Level: LevelHard}, 3, 4, "Hard Level Success"},
		{"in-progress hard fail", PathState{Stage: StageHard, Level: LevelHard}, 1, 4, "Hard Level - Practice Needed"},
		{"in-progress medium pass", PathState{Stage: StageMedium, Level: LevelMedium}, 3, 4, "Medium Level Success"},
		{"in-progress medium fail", PathState{Stage: StageMedium, Level: LevelMedium}, 1, 4, "Medium Level - Practice Needed"},
		{"in-progress easy pass", PathState{Stage: StageEasy, Level: LevelEasy}, 3, 4, "Easy Level Success"},
		{"in-progress easy fail", PathState{Stage: StageEasy, Level: LevelEasy}, 1, 4, "Easy Level - Practice Needed"},
		{"initial stage", PathState{Stage: StageInitial, Level: LevelMedium}, 0, 0, "Incomplete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := engine.GenerateReport(&tt.state, tt.score, tt.total)
			if report.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", report.Path, tt.wantPath)
			}
			if report.Message == "" {
				t.Error("report message is empty")
			}
			if want := ScorePercentage(tt.score, tt.total); report.ScorePercent != want {
				t.Errorf("score percent = %v, want %v", report.ScorePercent, want)
			}
		})
	}
}

func TestGenerateReportZeroTotal(t *testing.T) {
	engine := seededEngine(1)
	state := &PathState{Stage: StageHard, Level: LevelHard}

	report := engine.GenerateReport(state, 5, 0)

	if report.ScorePercent != 0 {
		t.Errorf("score percent = %v, want 0", report.ScorePercent)
	}
	// Zero percent is below the bar, so the fail branch applies.
	if report.Path != "Hard Level - Practice Needed" {
		t.Errorf("path = %q, want fail branch", report.Path)
	}
}
