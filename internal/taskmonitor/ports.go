package taskmonitor

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks TaskService,Registrar,Terminator

import "context"

// TaskService answers which activity is on top of the focused root task.
// ok is false when there is no focused task or it has no top activity.
type TaskService interface {
	FocusedTopActivity(ctx context.Context) (top ComponentName, ok bool, err error)
}

// Listener receives task stack change notifications. Delivery is serialized
// by the platform.
type Listener interface {
	OnTaskStackChanged()
}

// Registrar registers a listener for the rest of the process lifetime.
type Registrar interface {
	RegisterTaskStackListener(l Listener) error
}

// Terminator ends the current process immediately. It does not return on a
// real platform.
type Terminator interface {
	Terminate()
}

// TerminatorFunc adapts a function to Terminator.
type TerminatorFunc func()

func (f TerminatorFunc) Terminate() { f() }
