package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
)

var (
	crashMu      sync.Mutex
	crashRestore func()
)

// SetCrashRestore registers fn to run before a crash is reported, typically the
// screen teardown of a terminal view. nil clears it
func SetCrashRestore(fn func()) {
	crashMu.Lock()
	crashRestore = fn
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler: restores the terminal, prints the stack trace and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}
	runCrashRestore()

	os.Stdout.Sync()
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	os.Exit(1)
}

func runCrashRestore() {
	crashMu.Lock()
	fn := crashRestore
	crashRestore = nil
	crashMu.Unlock()
	if fn != nil {
		fn()
	}
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword anywhere a terminal may be taken over
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
