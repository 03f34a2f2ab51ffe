package common

import "errors"

var ErrModulePaused = errors.New("module paused")

// PauseView exposes the host-configured pause switches for native modules.
type PauseView interface {
	IsPaused(module string) bool
}

// Pauses is a static PauseView backed by a module-name set.
type Pauses map[string]bool

func (p Pauses) IsPaused(module string) bool {
	if p == nil {
		return false
	}
	return p[module]
}

// Guard rejects the operation when the named module is paused. A nil view or
// empty module name always passes.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
