package service

import (
	"net/http"
	"strings"
	"sync"
)

// handleFunc registers h for a Go 1.22-style "METHOD /path" ServeMux pattern
// on toolchains whose net/http mux predates method patterns. It preserves the
// 1.22 matching behavior the tests rely on: requests with a different method
// get 405, and a trailing "{$}" restricts the pattern to the exact path.
type muxShimEntry struct {
	exact    bool
	handlers map[string]http.HandlerFunc
}

var muxShim = struct {
	sync.Mutex
	entries map[*http.ServeMux]map[string]*muxShimEntry
}{entries: map[*http.ServeMux]map[string]*muxShimEntry{}}

func handleFunc(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	method, rest, ok := strings.Cut(pattern, " ")
	if !ok {
		mux.HandleFunc(pattern, h)
		return
	}
	path, exact := strings.CutSuffix(rest, "{$}")

	muxShim.Lock()
	defer muxShim.Unlock()
	byMux := muxShim.entries[mux]
	if byMux == nil {
		byMux = map[string]*muxShimEntry{}
		muxShim.entries[mux] = byMux
	}
	entry := byMux[path]
	if entry == nil {
		entry = &muxShimEntry{exact: exact, handlers: map[string]http.HandlerFunc{}}
		byMux[path] = entry
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			muxShim.Lock()
			hh, found := entry.handlers[r.Method]
			muxShim.Unlock()
			if entry.exact && r.URL.Path != path {
				http.NotFound(w, r)
				return
			}
			if !found {
				http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
				return
			}
			hh(w, r)
		})
	}
	entry.handlers[method] = h
}
