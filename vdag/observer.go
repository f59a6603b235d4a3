package vdag

import (
	"time"

	"go.uber.org/zap"
)

// Stage is a checkpoint of the build pipeline.
type Stage uint8

const (
	StageLeafCanonicalized Stage = iota
	StageLevelRewritten
	StageRootInstalled
	StageEncoded
)

func (s Stage) String() string {
	switch s {
	case StageLeafCanonicalized:
		return "leaf-canonicalized"
	case StageLevelRewritten:
		return "level-rewritten"
	case StageRootInstalled:
		return "root-installed"
	case StageEncoded:
		return "encoded"
	default:
		return "unknown"
	}
}

// Observer receives build checkpoints. Calls happen on the building goroutine,
// in pipeline order, and must not retain or mutate anything they are handed.
type Observer interface {
	// LevelStarted fires before a level is canonicalized.
	LevelStarted(level, nodes int)
	// LevelCanonicalized reports how many distinct nodes a level reduced to.
	LevelCanonicalized(level, nodes, unique int)
	// ParentRewritten reports how many child references of level were redirected.
	ParentRewritten(level, refs int)
	// LevelEncoded reports the packed size of a level in 64-bit words.
	LevelEncoded(level, nodes, words int)
	// StageEntered fires when the pipeline reaches a new stage.
	StageEntered(stage Stage, level int)
	// BuildDone fires once the DAG is immutable.
	BuildDone(elapsed time.Duration)
}

// NopObserver ignores every checkpoint.
type NopObserver struct{}

func (NopObserver) LevelStarted(int, int)            {}
func (NopObserver) LevelCanonicalized(int, int, int) {}
func (NopObserver) ParentRewritten(int, int)         {}
func (NopObserver) LevelEncoded(int, int, int)       {}
func (NopObserver) StageEntered(Stage, int)          {}
func (NopObserver) BuildDone(time.Duration)          {}

// LogObserver writes checkpoints to a zap logger. Per-level detail goes to debug,
// the summary to info.
type LogObserver struct {
	Logger *zap.SugaredLogger
}

func (o LogObserver) LevelStarted(level, nodes int) {
	o.Logger.Debugw("canonicalizing level", "level", level, "nodes", nodes)
}

func (o LogObserver) LevelCanonicalized(level, nodes, unique int) {
	o.Logger.Debugw("level canonicalized", "level", level, "nodes", nodes, "unique", unique)
}

func (o LogObserver) ParentRewritten(level, refs int) {
	o.Logger.Debugw("parent references rewritten", "level", level, "refs", refs)
}

func (o LogObserver) LevelEncoded(level, nodes, words int) {
	o.Logger.Debugw("level encoded", "level", level, "nodes", nodes, "words", words)
}

func (o LogObserver) StageEntered(stage Stage, level int) {
	o.Logger.Debugw("stage", "stage", stage.String(), "level", level)
}

func (o LogObserver) BuildDone(elapsed time.Duration) {
	o.Logger.Infow("dag built", "elapsed", elapsed)
}

// MultiObserver fans every checkpoint out in order.
type MultiObserver []Observer

func (m MultiObserver) LevelStarted(level, nodes int) {
	for _, o := range m {
		o.LevelStarted(level, nodes)
	}
}

func (m MultiObserver) LevelCanonicalized(level, nodes, unique int) {
	for _, o := range m {
		o.LevelCanonicalized(level, nodes, unique)
	}
}

func (m MultiObserver) ParentRewritten(level, refs int) {
	for _, o := range m {
		o.ParentRewritten(level, refs)
	}
}

func (m MultiObserver) LevelEncoded(level, nodes, words int) {
	for _, o := range m {
		o.LevelEncoded(level, nodes, words)
	}
}

func (m MultiObserver) StageEntered(stage Stage, level int) {
	for _, o := range m {
		o.StageEntered(stage, level)
	}
}

func (m MultiObserver) BuildDone(elapsed time.Duration) {
	for _, o := range m {
		o.BuildDone(elapsed)
	}
}
