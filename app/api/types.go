package api

import (
	"time"

	"github.com/labirinth/curator/app/pipeline"
	"github.com/labirinth/curator/app/store"
)

// SweepReporter exposes the scheduler's last sweep to the ops endpoints
type SweepReporter interface {
	LastSweep() (pipeline.Stats, time.Time, int)
}

var _ SweepReporter = (*pipeline.Scheduler)(nil)

type Handler struct {
	store     store.StateStore
	reporter  SweepReporter
	feedCount int
	quota     int
	version   string
	startedAt time.Time
}
