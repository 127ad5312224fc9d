package vdom

import "unsafe"

// sameRef compares two values by identity. Values whose dynamic type is not
// comparable are never the same.
func sameRef(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// funcAddr returns the address of the closure behind f, so two func values are
// identical when they are the same closure instance.
func funcAddr[F any](f F) uintptr {
	return *(*uintptr)(unsafe.Pointer(&f))
}

// funcCode returns the code pointer of f, ignoring what the closure captured.
// Two closures made by the same func literal share it.
func funcCode[F any](f F) uintptr {
	if funcAddr(f) == 0 {
		return 0
	}
	return **(**uintptr)(unsafe.Pointer(&f))
}

func sameTaggers(a, b []func(any) any) bool {
	for i := range a {
		if funcAddr(a[i]) != funcAddr(b[i]) {
			return false
		}
	}
	return true
}
