package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathlearn_quiz_sessions_started_total",
		Help: "Adaptive quiz sessions started.",
	})

	BlocksServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathlearn_quiz_blocks_served_total",
		Help: "Question blocks served, by stage.",
	}, []string{"stage"})

	ResponsesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathlearn_responses_recorded_total",
		Help: "Assignment responses recorded, by correctness.",
	}, []string{"correct"})

	ReportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mathlearn_reports_generated_total",
		Help: "Path reports generated.",
	})
)
