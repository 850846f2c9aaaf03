package models

import "math"

// Stats is the completion summary over every task.
type Stats struct {
	TotalTasks           int `json:"totalTasks"`
	CompletedTasks       int `json:"completedTasks"`
	TotalSteps           int `json:"totalSteps"`
	CompletedSteps       int `json:"completedSteps"`
	CompletionPercentage int `json:"completionPercentage"`
}

// ComputeStats aggregates the given tasks. The percentage is the rounded
// share of completed steps and is 0 when there are no steps.
func ComputeStats(tasks []Task) Stats {
	stats := Stats{TotalTasks: len(tasks)}

	for i := range tasks {
		stats.TotalSteps += len(tasks[i].Steps)
		stats.CompletedSteps += tasks[i].CompletedSteps()
		if tasks[i].Completed() {
			stats.CompletedTasks++
		}
	}

	if stats.TotalSteps > 0 {
		ratio := float64(stats.CompletedSteps) / float64(stats.TotalSteps)
		stats.CompletionPercentage = int(math.Round(ratio * 100))
	}

	return stats
}
