package receipt

import (
	"strconv"
	"strings"
)

// Lookup drills into a free-form decoded structure along a dot path with
// optional array indexes, e.g. "contract[0].parameter.claimType". A missing
// segment yields absence, never a panic or an error.
func Lookup(root any, path string) (any, bool) {
	current := root
	for _, segment := range strings.Split(path, ".") {
		if len(segment) == 0 {
			return nil, false
		}
		key := segment
		var indexes []int
		for {
			open := strings.IndexByte(key, '[')
			if open < 0 {
				break
			}
			close := strings.IndexByte(key[open:], ']')
			if close < 0 {
				return nil, false
			}
			idx, err := strconv.Atoi(key[open+1 : open+close])
			if err != nil {
				return nil, false
			}
			indexes = append(indexes, idx)
			key = key[:open] + key[open+close+1:]
		}
		if len(key) > 0 {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			current, ok = m[key]
			if !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// LookupString is Lookup narrowed to string values.
func LookupString(root any, path string) (string, bool) {
	v, ok := Lookup(root, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
