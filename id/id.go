// Package id generates upload-batch identifiers. Batches are listed and
// rolled back by id, so ids sort in upload order.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	// ulid.Monotonic keeps ids generated within the same millisecond
	// strictly increasing, so two imports in quick succession never
	// interleave when batches are listed. Seeded from crypto/rand so the
	// entropy half of the id is not guessable.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a fresh ULID. The timestamp prefix means a ledger query
// ordered by batch id reads back in upload order without a separate
// created-at column.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Only reachable if the clock runs backwards past the ULID epoch
		// or the entropy reader fails.
		panic(err)
	}
	return id.String()
}

// NewBatch returns an upload-batch identifier for one strategy's import.
// Time-sortable, so batches list in upload order.
func NewBatch(strategy string) string {
	return strategy + "-" + New()
}
