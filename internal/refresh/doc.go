// Package refresh keeps the image map store current.
//
// Poller.Run fetches the remote mapping, hands it to the store's
// SwapIfChanged and sleeps for the configured interval, forever. Each cycle
// ends in one Outcome:
//
//	Unchanged      — same fingerprint as the current map, nothing parsed
//	Replaced       — new map installed
//	FetchFailed    — transport error or non-2xx response; retried next tick
//	ParseRejected  — text fetched but not a valid map; current map kept
//
// There is no backoff and no retry limit. Apply runs the same swap-and-report
// step for text from other sources, such as the local file watcher.
package refresh
