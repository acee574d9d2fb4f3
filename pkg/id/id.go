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
	// Seed a PRNG from crypto/rand so ULID entropy is unpredictable.
	// ulid.Monotonic keeps IDs from the same millisecond increasing.
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID run identifier. Run IDs sort by creation time, which
// keeps the runs table and journal files in chronological order.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), mono)
	if err != nil {
		// Only possible if time goes backwards or entropy fails.
		panic(err)
	}
	return id.String()
}

// Seed derives a non-zero random seed from the entropy of a run ID, so a
// stress run without an explicit seed can be replayed from its ID alone.
func Seed(runID string) (int64, error) {
	u, err := ulid.ParseStrict(runID)
	if err != nil {
		return 0, err
	}
	e := u.Entropy()
	s := int64(binary.BigEndian.Uint64(e[2:10]) &^ (1 << 63))
	if s == 0 {
		s = 1
	}
	return s, nil
}

// Time returns the creation time encoded in a run ID.
func Time(runID string) (time.Time, error) {
	u, err := ulid.ParseStrict(runID)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()).UTC(), nil
}
