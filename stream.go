package mercury

import (
	"io"
	"iter"
)

// ChunkReader adapts an io.Reader into a chunk sequence for a Stream
// outcome, reading at most size bytes per chunk. A read error ends the
// sequence; the host sees a truncated stream rather than a fault, since
// the status line has already been written by then.
func ChunkReader(r io.Reader, size int) iter.Seq[string] {
	if size <= 0 {
		size = 4096
	}
	return func(yield func(string) bool) {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 && !yield(string(buf[:n])) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// Chunks builds a Stream outcome from fixed chunks, mainly for tests and
// small incremental responses.
func Chunks(chunks ...string) Stream {
	return Stream{Chunks: func(yield func(string) bool) {
		for _, c := range chunks {
			if !yield(c) {
				return
			}
		}
	}}
}
