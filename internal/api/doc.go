// Package api implements roulette's HTTP surface.
//
// New(store, opts) returns an http.Handler that serves:
//
//	GET /health                       — number of keys, text/plain
//	GET /image                        — 302 to a uniformly chosen image
//	GET /image/after/{bound}          — same, keys >= bound only
//	GET /image/latest                 — 302 to an image biased toward newer keys
//	GET /image/latest/after/{bound}   — same, keys >= bound only
//	GET /robots.txt                   — disallow all crawlers
//	GET /metrics                      — Prometheus exposition, when configured
//
// Image routes accept ?cache=<n>[smhd]; a valid value adds
// "Cache-Control: public, max-age=<seconds>" to the redirect, anything else
// is ignored. An empty selection (no keys, or none at or after the bound)
// returns 404.
package api
