package coproto

import "github.com/delaneyj/toolbelt"

var partPool = toolbelt.New(func() []Part { return make([]Part, 0, 32) })

// getPartSlice returns an empty scratch slice with room for n parts.
func getPartSlice(n int) []Part {
	s := partPool.Get()
	if cap(s) < n {
		return make([]Part, 0, n)
	}
	return s[:0]
}

func putPartSlice(s []Part) {
	if s == nil {
		return
	}
	for i := range s {
		s[i] = Part{}
	}
	s = s[:0]
	partPool.Put(s)
}
