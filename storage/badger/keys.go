package badger

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/homematch/core"
)

// Key prefixes for different data types
const (
	listingRecordPrefix = "lisrec"
	listingDatePrefix   = "lisrecd"
	listingCityPrefix   = "lisrecc"
)

// makeListingKey generates a key for a listing by ID.
func makeListingKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", listingRecordPrefix, id))
}

// makeListingDateKey generates a composite key for the insertion-date index.
// Format: prefix:timestamp:id
func makeListingDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := listingDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialListingDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialListingDateKey(timestamp time.Time) []byte {
	prefix := listingDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeListingCityKey generates a composite key for the city index.
// The city component is lowercased so lookups are case-insensitive.
// Format: prefix:city:id
func makeListingCityKey(city string, id core.ID) []byte {
	prefix := listingCityPrefix + ":" + strings.ToLower(city) + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialListingCityKey generates a partial key for city queries.
// Format: prefix:city:
func makePartialListingCityKey(city string) []byte {
	return []byte(listingCityPrefix + ":" + strings.ToLower(city) + ":")
}

// makeCheckpointKey generates a key for processor checkpoints.
func makeCheckpointKey(processorType string) []byte {
	return []byte(fmt.Sprintf("%s:chkpt", processorType))
}
