// Package source supplies raw image map text: the startup copy (a local file
// or the embedded default), a file watcher that re-reads the local file when
// it changes, and an HTTP fetcher used by the refresh poller.
//
// Nothing here parses the text; callers hand it to imagemap.Parse or
// store.SwapIfChanged.
package source
