package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/renovelt/catalog/core"
)

// Key prefixes for different data types
const (
	entryRecordPrefix = "catent"
	entryIDSeq        = "catentseq"
	jobRecordPrefix   = "embjob"
	jobQueuedPrefix   = "embjobq"
	jobIDSeq          = "embjobseq"
)

// makeEntryKey generates a key for a catalog entry by ID.
func makeEntryKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", entryRecordPrefix, id))
}

// makeJobKey generates a key for an embedding job by ID.
func makeJobKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", jobRecordPrefix, id))
}

// makeJobQueuedKey generates a composite key for the queued-job index.
// Format: prefix:enqueuedAt:id
func makeJobQueuedKey(enqueuedAt time.Time, id core.ID) []byte {
	prefix := jobQueuedPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(enqueuedAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
