package leaderboard

import "errors"

// ErrPersistence means a snapshot could not be written or read. The
// store's own state is unaffected when it is returned.
var ErrPersistence = errors.New("leaderboard persistence failed")
