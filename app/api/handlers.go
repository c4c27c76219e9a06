package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labirinth/curator/app/pipeline"
	"github.com/labirinth/curator/app/store"
)

func NewHandler(store store.StateStore, reporter SweepReporter, feedCount, quota int, version string) *Handler {
	return &Handler{
		store:     store,
		reporter:  reporter,
		feedCount: feedCount,
		quota:     quota,
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"timestamp":   time.Now().In(time.Local).Format(time.RFC3339),
		"version":     h.version,
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
		"feeds":       h.feedCount,
		"ledger_size": h.store.PublishedCount(),
		"quota_used":  h.store.DailyCount(),
		"quota_limit": h.quota,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, last, sweeps := h.reporter.LastSweep()

	resp := gin.H{
		"sweeps_completed": sweeps,
		"last_sweep":       nil,
		"last_sweep_stats": pipeline.Stats{},
	}
	if sweeps > 0 {
		resp["last_sweep"] = last.Format(time.RFC3339)
		resp["last_sweep_stats"] = stats
	}

	c.JSON(http.StatusOK, resp)
}
