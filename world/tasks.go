package world

import (
	"context"
	"sync"

	"github.com/voxelfs/regiontext/internal/logctx"
)

// task is one independent unit of parallel work: a region file on export or
// a slice group on restore.
type task struct {
	name string
	run  func() error
}

// runTasks drains tasks on a bounded worker pool. Failures are logged with
// the task name and swallowed; sibling tasks always run to completion. There
// is no cancellation, matching the run-to-completion model of a conversion
// batch.
func runTasks(ctx context.Context, workers int, tasks []task) {
	if len(tasks) == 0 {
		return
	}
	if workers <= 0 {
		workers = defaultWorkers()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	log := logctx.FromContext(ctx)
	jobs := make(chan task, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				if err := t.run(); err != nil {
					log.Error().Str("task", t.name).Err(err).Msg("task failed")
					continue
				}
				log.Info().Str("task", t.name).Msg("task complete")
			}
		}()
	}

	for _, t := range tasks {
		jobs <- t
	}
	close(jobs)
	wg.Wait()
}
