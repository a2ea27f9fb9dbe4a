package locationhub

import (
	"bytes"
	"runtime"
	"strconv"
)

var goroutinePrefix = []byte("goroutine ")

// goroutineID returns the id of the calling goroutine, or 0 if it cannot be determined.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]

	buf, ok := bytes.CutPrefix(buf, goroutinePrefix)
	if !ok {
		return 0
	}

	if i := bytes.IndexByte(buf, ' '); i > 0 {
		buf = buf[:i]
	}

	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		return 0
	}

	return id
}
