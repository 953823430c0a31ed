package page

import "errors"

// ErrOutOfMemory is returned by Reserve when growing a Page or Line
// would require an allocation that failed, per spec §7. Reserve
// leaves partially-grown state intact (grows are one-way) rather than
// rolling back. In practice this Go port relies on the runtime
// allocator, which panics rather than returning an error on true
// exhaustion; ErrOutOfMemory is kept in the API so callers written
// against the documented contract compile and behave correctly if a
// future allocator-aware implementation starts returning it.
var ErrOutOfMemory = errors.New("page: out of memory")
