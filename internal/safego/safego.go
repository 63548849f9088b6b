// Package safego launches background goroutines that must not take the server
// down. The admin API runs a handful of long-lived side tasks (the metrics and
// pprof listeners, the DB pool stats collector) whose panics should be logged
// and contained, not crash the process serving sessions.
package safego

import "log/slog"

// Go runs fn in a new goroutine, recovering and logging any panic under the
// given task name. Use it for every fire-and-forget goroutine where an
// unrecovered panic would otherwise kill the task silently.
func Go(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("background task panicked", "task", name, "panic", r)
			}
		}()
		fn()
	}()
}
