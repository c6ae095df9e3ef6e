package repository_test

import (
	"context"
	"reflect"

	"github.com/testcontainers/testcontainers-go"
)

// terminateContainer mirrors testcontainers.TerminateContainer (v0.34+):
// it is a no-op for a nil container and otherwise terminates it.
func terminateContainer(c testcontainers.Container) error {
	if c == nil || reflect.ValueOf(c).IsNil() {
		return nil
	}
	return c.Terminate(context.Background())
}
