//go:build wasm

package loop

// wasm hosts run a single thread, every caller is on the loop.
func currentGoroutine() int64 {
	return 0
}
