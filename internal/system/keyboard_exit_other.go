//go:build !linux

package system

import "context"

var DefaultExitKeys []uint16

// StartExitOnKeys is a no-op without evdev.
func StartExitOnKeys(ctx context.Context, l logger, keys []uint16, onExit func()) {
	if l != nil {
		l.Infof("input", "exit keys need linux evdev; disabled")
	}
}
