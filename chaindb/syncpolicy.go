package chaindb

import (
	"time"

	"chaincore.dev/node/blockindex"
)

// shouldSync decides whether a connect/reconnect commit fsyncs the active
// flat file before the KV transaction commits: whenever the wall clock is
// unavailable, the header claims a future time, the entry is within a day
// of the wall clock (the "near tip" window where a crash would lose recent
// history), or the entry lands on a round thousand-block boundary.
func shouldSync(now time.Time, header blockindex.Header, height uint32) bool {
	if now.IsZero() {
		return true
	}
	headerTime := time.Unix(int64(header.Time), 0)
	if headerTime.After(now) {
		return true
	}
	if now.Sub(headerTime) < 24*time.Hour {
		return true
	}
	if height%1000 == 0 {
		return true
	}
	return false
}
