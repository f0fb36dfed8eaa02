// Package resource implements the Controller for engine-wide limits.
//
// The Controller manages three resource types:
//
//   - Memory: track and limit bytes held by vector stores (non-blocking, fail-fast)
//   - Query slots: bound the number of scans running at once (blocking)
//   - Query rate: token bucket over query admissions (blocking)
//
// # Memory Management
//
// A Fit reserves the bytes of its new store before copying. AcquireMemory is
// non-blocking and returns ErrMemoryLimitExceeded if the limit would be
// exceeded, so a failed Fit leaves the previous store untouched:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(n * dim * 4); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//
// # Query Admission
//
//	if err := rc.AdmitQuery(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseQuery()
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
