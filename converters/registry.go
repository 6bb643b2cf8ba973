package converters

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/darianmavgo/mktable/converters/common"
)

var (
	driversMu  sync.RWMutex
	drivers    = make(map[string]common.Driver)
	extensions = make(map[string]string)
)

// Register makes a converter driver available by the provided name.
// If Register is called twice with the same name or if driver is nil, it panics.
func Register(name string, driver common.Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("converters: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("converters: Register called twice for driver " + name)
	}
	drivers[name] = driver
	for _, ext := range driver.Extensions() {
		extensions[strings.ToLower(ext)] = name
	}
}

// Lookup returns the driver registered under name.
func Lookup(name string) (common.Driver, error) {
	driversMu.RLock()
	driver, ok := drivers[strings.ToLower(name)]
	driversMu.RUnlock()
	if !ok {
		return nil, common.NewError(common.KindUnsupportedShape, "converters: unknown driver %q (forgotten import?)", name)
	}
	return driver, nil
}

// DriverForPath picks a driver name from the file extension of path.
func DriverForPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	driversMu.RLock()
	name, ok := extensions[ext]
	driversMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("converters: no driver handles %q files", ext)
	}
	return name, nil
}

// Drivers returns a sorted list of the names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	list := make([]string, 0, len(drivers))
	for name := range drivers {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}
