// Package imagemap holds the immutable key → filename mapping served by
// roulette, together with the fingerprint of the raw text it was parsed from.
//
// Parse(raw) decodes a flat JSON object of string values, sorts the keys
// ordinally and records Fingerprint(raw). A changed mapping is always a new
// *ImageMap; nothing in this package mutates one after Parse returns.
//
// FilterFrom narrows a sorted key slice to the suffix at or after a bound
// using binary search.
package imagemap
