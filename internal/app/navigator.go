package app

import (
	"fmt"
	"strings"
	"sync"
)

// routePrefixes lists the platform surfaces this shell can present.
// Notification links pointing anywhere else fail to resolve and fall
// back to their type-keyed route.
var routePrefixes = []string{
	"/groups",
	"/connections",
	"/businesses",
	"/opportunities",
	"/events",
	"/notifications",
	"/academy",
	"/campaigns",
	"/prayers",
	"/wallet",
}

// shellNavigator is the application's page-transition mechanism: it
// validates a destination against the known surfaces and records it for
// the header to display.
type shellNavigator struct {
	mu      sync.Mutex
	current string
}

// Navigate implements notify.Navigator.
func (nv *shellNavigator) Navigate(path string) error {
	if !knownRoute(path) {
		return fmt.Errorf("unknown route %q", path)
	}

	nv.mu.Lock()
	nv.current = path
	nv.mu.Unlock()
	return nil
}

// Current returns the last successfully resolved destination.
func (nv *shellNavigator) Current() string {
	nv.mu.Lock()
	defer nv.mu.Unlock()
	return nv.current
}

func knownRoute(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range routePrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}
