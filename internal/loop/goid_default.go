//go:build !wasm

package loop

import "github.com/petermattis/goid"

func currentGoroutine() int64 {
	return goid.Get()
}
