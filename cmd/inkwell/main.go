package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/inkwell/pkg/core"
)

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", msg, describe(err))
	os.Exit(1)
}

// describe turns store errors into something a user can act on.
func describe(err error) string {
	var rejected *core.RejectedError
	switch {
	case errors.Is(err, core.ErrUnauthenticated):
		return "not logged in (run `inkwell login`)"
	case errors.As(err, &rejected) && rejected.HasMessage() && rejected.StatusCode < 500:
		return rejected.Message
	case errors.Is(err, core.ErrUnavailable):
		return fmt.Sprintf("could not reach the notes service (%v)", err)
	default:
		return err.Error()
	}
}
