package storage

import (
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// arrivalClock hands out strictly increasing KSUIDs. KSUIDs only have second
// resolution, so ids minted within the same second, or after the wall clock
// steps back, continue from the last one instead.
type arrivalClock struct {
	mu   sync.Mutex
	last ksuid.KSUID
	now  func() time.Time
}

func newArrivalClock(last ksuid.KSUID) *arrivalClock {
	return &arrivalClock{last: last, now: time.Now}
}

func (c *arrivalClock) Next() (ksuid.KSUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k, err := ksuid.NewRandomWithTime(c.now())
	if err != nil {
		return ksuid.Nil, err
	}
	if ksuid.Compare(k, c.last) <= 0 {
		k = c.last.Next()
	}
	c.last = k
	return k, nil
}
