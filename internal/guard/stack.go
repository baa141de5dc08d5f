package guard

import (
	"runtime"
	"strings"
)

// IntegrityMarker names the integrity verification component whose presence
// on the call stack identifies an attestation request worth blocking.
const IntegrityMarker = "DroidGuard"

// Frame is one call stack entry. Component is the originating component
// (class, or package plus receiver type) the frame belongs to.
type Frame struct {
	Component string `json:"component"`
	Function  string `json:"function,omitempty"`
}

// MarkerPredicate reports whether a stack contains a marker frame.
type MarkerPredicate func(frames []Frame) bool

// ContainsMarker matches frames whose component contains marker.
func ContainsMarker(marker string) MarkerPredicate {
	return func(frames []Frame) bool {
		for _, f := range frames {
			if strings.Contains(f.Component, marker) {
				return true
			}
		}
		return false
	}
}

// StackSource captures the stack of the calling goroutine.
type StackSource func() ([]Frame, error)

const maxStackDepth = 64

// RuntimeStack captures Go frames of the caller.
func RuntimeStack() ([]Frame, error) {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return nil, nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, n)
	for {
		f, more := frames.Next()
		out = append(out, Frame{Component: componentOf(f.Function), Function: f.Function})
		if !more {
			break
		}
	}
	return out, nil
}

// componentOf strips the final method or function name:
// "a/b/pkg.(*Type).Method" -> "a/b/pkg.(*Type)".
func componentOf(fn string) string {
	slash := strings.LastIndex(fn, "/")
	dot := strings.LastIndex(fn[slash+1:], ".")
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}
