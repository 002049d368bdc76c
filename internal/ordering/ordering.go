// Package ordering derives presentation order for tasks and subtasks.
//
// Both orders are stable partitions, not comparator sorts: entries that land
// in the same bucket keep their input order.
package ordering

import (
	"fmt"

	"github.com/sandeepkv93/tbetodo/internal/model"
)

// SortSubtasks puts every non-completed subtask before every completed one.
func SortSubtasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted() {
			out = append(out, t)
		}
	}
	for _, t := range tasks {
		if t.IsCompleted() {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks buckets non-completed tasks by importance from critical to
// negligible and appends completed tasks last. A task whose importance is not
// part of the enumeration is rejected.
func SortTasks(tasks []model.MainTask) ([]model.MainTask, error) {
	buckets := make([][]model.MainTask, len(model.Importances))
	done := make([]model.MainTask, 0)
	for _, t := range tasks {
		rank := t.Importance.Rank()
		if rank < 0 {
			return nil, fmt.Errorf("sort task %s: %w: %q", t.ID, model.ErrInvalidImportance, t.Importance)
		}
		if t.IsCompleted() {
			done = append(done, t)
			continue
		}
		buckets[rank] = append(buckets[rank], t)
	}

	out := make([]model.MainTask, 0, len(tasks))
	for _, bucket := range buckets {
		out = append(out, bucket...)
	}
	return append(out, done...), nil
}

// MustSortTasks is SortTasks for callers holding validated tasks.
func MustSortTasks(tasks []model.MainTask) []model.MainTask {
	out, err := SortTasks(tasks)
	if err != nil {
		panic(err)
	}
	return out
}

// IsSorted reports whether tasks are already in SortTasks order.
func IsSorted(tasks []model.MainTask) bool {
	last := -1
	seenDone := false
	for _, t := range tasks {
		if t.IsCompleted() {
			seenDone = true
			continue
		}
		if seenDone {
			return false
		}
		rank := t.Importance.Rank()
		if rank < last {
			return false
		}
		last = rank
	}
	return true
}
