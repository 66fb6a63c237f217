package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/crucial707/job-board/internal/metrics"
	"github.com/crucial707/job-board/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts a background refresher that recomputes the open-posts gauge from
// the database once a minute. It blocks; call it in a goroutine.
func Run(jobPostRepo *repo.JobPostRepo) {
	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		n, err := jobPostRepo.CountOpen(ctx)
		if err != nil {
			slog.Error("stats: count open job posts", "err", err)
			return
		}
		metrics.SetJobPostsOpen(n)
	}

	// Prime the gauge before the first tick.
	refresh()

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", refresh); err != nil {
		slog.Error("stats: add cron entry", "err", err)
		return
	}
	c.Run()
}
