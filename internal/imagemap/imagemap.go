package imagemap

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Embedded is the default mapping compiled into the binary. It is used when
// no map file is configured.
//
//go:embed image-map.json
var Embedded string

// ParseError reports raw mapping text that is not a flat JSON object of
// string values.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("imagemap: parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// errNotObject is returned for a top-level JSON null, which encoding/json
// accepts as a nil map.
var errNotObject = errors.New("top-level value is not an object")

// ImageMap is an immutable snapshot of the key → filename mapping.
// Keys are sorted ascending by byte-wise string comparison.
type ImageMap struct {
	keys        []string
	files       map[string]string
	fingerprint uint64
}

// Parse decodes raw as a flat JSON object mapping keys to filenames.
// It returns a *ParseError if raw has any other shape.
func Parse(raw string) (*ImageMap, error) {
	// Decoding into map[string]string would silently accept null values.
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, &ParseError{Err: err}
	}
	if obj == nil {
		return nil, &ParseError{Err: errNotObject}
	}

	files := make(map[string]string, len(obj))
	keys := make([]string, 0, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, &ParseError{Err: fmt.Errorf("value for key %q is %T, want string", k, v)}
		}
		files[k] = s
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &ImageMap{
		keys:        keys,
		files:       files,
		fingerprint: Fingerprint(raw),
	}, nil
}

// Fingerprint returns the xxhash64 digest of text. It is used only to tell
// whether the raw mapping changed between two loads.
func Fingerprint(text string) uint64 {
	return xxhash.Sum64String(text)
}

// Keys returns the sorted key slice. Callers must not modify it.
func (m *ImageMap) Keys() []string { return m.keys }

// Len returns the number of keys.
func (m *ImageMap) Len() int { return len(m.keys) }

// Fingerprint returns the fingerprint of the text m was parsed from.
func (m *ImageMap) Fingerprint() uint64 { return m.fingerprint }

// Lookup returns the filename mapped to key.
func (m *ImageMap) Lookup(key string) (string, bool) {
	f, ok := m.files[key]
	return f, ok
}

// FilterFrom returns the suffix of sorted whose elements are >= bound.
// The result shares sorted's backing array. An empty bound returns sorted
// unchanged.
func FilterFrom(sorted []string, bound string) []string {
	if bound == "" {
		return sorted
	}
	return sorted[sort.SearchStrings(sorted, bound):]
}
