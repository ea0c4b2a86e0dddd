package object

import (
	"strings"
	"sync"

	"github.com/ianlancetaylor/demangle"
)

// demangleCache memoizes demangling results; large objects repeat the same
// mangled names across symbol tables and relocations.
var demangleCache = struct {
	sync.RWMutex
	m map[string]string
}{m: make(map[string]string)}

// Demangle attempts to recover a readable name from a mangled symbol name.
// It returns "" when no mangling scheme applies; callers fall back to the raw
// name. Mach-O symbols carry an extra leading underscore, so a second attempt
// is made with it stripped.
func Demangle(name string) string {
	demangleCache.RLock()
	cached, ok := demangleCache.m[name]
	demangleCache.RUnlock()
	if ok {
		return cached
	}

	out := demangle.Filter(name, demangle.NoClones)
	if out == name && strings.HasPrefix(name, "_") {
		if alt := demangle.Filter(name[1:], demangle.NoClones); alt != name[1:] {
			out = alt
		}
	}
	if out == name {
		out = ""
	}

	demangleCache.Lock()
	demangleCache.m[name] = out
	demangleCache.Unlock()
	return out
}
