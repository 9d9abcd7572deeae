//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const evKey = 0x01

// Linux input-event-codes.h
const (
	KeyEsc = 1
	KeyQ   = 16
	KeyF4  = 62
)

// DefaultExitKeys stop the framebuffer binary.
var DefaultExitKeys = []uint16{KeyEsc, KeyQ, KeyF4}

// StartExitOnKeys watches Linux evdev devices under /dev/input/event* and
// invokes onExit once when one of keys is pressed.
//
// It is best-effort: if no input devices are available, it logs and returns.
func StartExitOnKeys(ctx context.Context, l logger, keys []uint16, onExit func()) {
	if onExit == nil || len(keys) == 0 {
		return
	}

	tvSize := eventTimevalSize()
	eventSize := tvSize + 2 + 2 + 4

	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(paths) == 0 {
		if l != nil {
			l.Infof("input", "no evdev devices found for exit keys")
		}
		return
	}

	var once sync.Once
	triggerExit := func(code uint16) {
		once.Do(func() {
			if l != nil {
				l.Infof("input", "key %d pressed: exiting", code)
			}
			onExit()
		})
	}

	for _, path := range paths {
		p := path
		go func() {
			fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NONBLOCK, 0)
			if err != nil {
				return
			}
			f := os.NewFile(uintptr(fd), p)
			defer func() {
				_ = f.Close()
			}()

			buf := make([]byte, 64*eventSize)

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
				_, pollErr := unix.Poll(pollFds, 250)
				if pollErr != nil {
					if pollErr == unix.EINTR {
						continue
					}
					// Device might have gone away.
					return
				}
				if pollFds[0].Revents&unix.POLLIN == 0 {
					continue
				}

				n, readErr := unix.Read(fd, buf)
				if readErr != nil {
					if readErr == unix.EAGAIN || readErr == unix.EINTR {
						continue
					}
					return
				}
				if code, ok := findKeyPress(buf[:max(n, 0)], tvSize, keys); ok {
					triggerExit(code)
					// Give the app a moment to unwind; then stop reading.
					time.Sleep(50 * time.Millisecond)
					return
				}
			}
		}()
	}
}

func eventTimevalSize() int {
	if size := binary.Size(unix.Timeval{}); size > 0 {
		return size
	}
	return 16
}

// findKeyPress scans a buffer of input_event records (timeval, u16 type,
// u16 code, s32 value) for a key-down of one of keys.
func findKeyPress(buf []byte, tvSize int, keys []uint16) (uint16, bool) {
	eventSize := tvSize + 2 + 2 + 4
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		rec := buf[off : off+eventSize]
		typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
		code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
		value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
		if typ != evKey || value != 1 {
			continue
		}
		for _, k := range keys {
			if code == k {
				return code, true
			}
		}
	}
	return 0, false
}
