package memetic

import (
	"errors"
	"fmt"

	"github.com/limaJavier/memetic-timetabling/pkg/model"
)

var (
	ErrNoSuitableRoom = errors.New("no suitable room was found for session")
	ErrImplementation = errors.New("implementation error")
)

// NoSuitableRoomError reports a session whose requirements no room can meet. The input is unrealizable and the run is aborted
type NoSuitableRoomError struct {
	Session *model.Session
}

func (err *NoSuitableRoomError) Error() string {
	return fmt.Sprintf("%v: %v (requirements %+v)", ErrNoSuitableRoom, err.Session, err.Session.Requirements)
}

func (err *NoSuitableRoomError) Unwrap() error {
	return ErrNoSuitableRoom
}

// ImplementationError is raised (as a panic) when an internal invariant of the engine does not hold
type ImplementationError struct {
	Message string
}

func (err *ImplementationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrImplementation, err.Message)
}

func (err *ImplementationError) Unwrap() error {
	return ErrImplementation
}

func implementationPanicf(format string, args ...any) {
	panic(&ImplementationError{Message: fmt.Sprintf(format, args...)})
}
