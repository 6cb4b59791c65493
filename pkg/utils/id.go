package utils

import (
	"fmt"
	"sync/atomic"
	"time"
)

// seq reduces id collisions when multiple events share the same nanosecond
// timestamp.
var seq uint64

// GenID returns a sortable opaque id: a zero-padded nanosecond timestamp
// plus a process-local counter. Lexicographic key order equals insertion
// order within one process.
func GenID() string {
	ts := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&seq, 1)
	return fmt.Sprintf("%020d-%06d", ts, s)
}
