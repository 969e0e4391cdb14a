// Package resource bounds the resources an index spends outside the caller's goroutine.
//
//   - Memory: bytes held by unflushed memtable entries (non-blocking, fail-fast)
//   - Concurrency: concurrent segment flushes and opens
//   - IO: token-bucket limit on segment bytes read and written
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
