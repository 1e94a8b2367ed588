package internal

import "runtime/debug"

// safeGo runs fn in a goroutine and recovers from panics so a single capture
// loop failure does not take the whole process down
func safeGo(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				LogError("PANIC recovered in goroutine '%s': %v", name, r)
				LogDebug("Stack trace:\n%s", debug.Stack())
			}
		}()
		fn()
	}()
}
