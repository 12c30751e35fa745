// pkg/dialects/registry.go
package dialects

import (
	"sort"
	"strings"
	"sync"

	"github.com/chmenegatti/dsprovision/pkg/dialects/common"
)

var (
	driversMu sync.RWMutex // guards drivers
	drivers   = make(map[string]common.Connector)
)

// Register makes a connector available under a JDBC driver identifier, e.g.
// "com.mysql.cj.jdbc.Driver". Driver packages call it from init, so a driver
// is "loadable" exactly when its package is linked into the binary.
// Registering the same identifier twice, or a nil connector, panics.
func Register(identifier string, connector common.Connector) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if connector == nil {
		panic("dialects: Register connector is nil")
	}
	if _, dup := drivers[identifier]; dup {
		panic("dialects: Register called twice for driver " + identifier)
	}
	drivers[identifier] = connector
}

// Lookup returns the connector registered for identifier.
func Lookup(identifier string) (common.Connector, bool) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	c, ok := drivers[identifier]
	return c, ok
}

// Loadable reports whether a connector is registered for identifier.
func Loadable(identifier string) bool {
	_, ok := Lookup(identifier)
	return ok
}

// FirstLoadable walks candidates in order and returns the first loadable one.
// Blank entries are skipped and surrounding spaces trimmed.
func FirstLoadable(candidates []string) (string, bool) {
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c != "" && Loadable(c) {
			return c, true
		}
	}
	return "", false
}

// SplitCandidates splits a comma-separated driver identifier list.
func SplitCandidates(identifiers string) []string {
	if strings.TrimSpace(identifiers) == "" {
		return nil
	}
	parts := strings.Split(identifiers, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RegisteredDrivers returns the registered identifiers, sorted.
func RegisteredDrivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
