// Package auth provides API key authentication for roulette's admin
// endpoints. The public image routes are never authenticated.
//
// APIKey(header, key) returns middleware that passes every request through
// when key is empty, and otherwise requires header to carry exactly key.
package auth
