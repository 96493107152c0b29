package tasks

import (
	"github.com/hibiken/asynq"
)

const TypeSweepRun = "sweep:run"

// NewSweepTask builds the reconciliation task. The cycle reads its own
// work from the database, so the task carries no payload.
func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSweepRun, nil)
}
