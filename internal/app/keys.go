package app

import "github.com/nhle/task-calendar/internal/keys"

// KeyMap is re-exported from the keys package so callers wiring the app
// need only one import.
type KeyMap = keys.KeyMap

// DefaultKeyMap delegates to keys.DefaultKeyMap.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}
