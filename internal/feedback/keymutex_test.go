package feedback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyMutex_SerializesSameKey(t *testing.T) {
	k := newKeyMutex()

	unlock := k.Lock("a")
	acquired := make(chan struct{})
	go func() {
		release := k.Lock("a")
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	<-acquired
	assert.Eventually(t, func() bool { return k.size() == 0 }, time.Second, time.Millisecond)
}

func TestKeyMutex_DistinctKeysDoNotBlock(t *testing.T) {
	k := newKeyMutex()
	unlockA := k.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked by a")
	}
}

func TestKeyMutex_UnlockIsIdempotent(t *testing.T) {
	k := newKeyMutex()
	var wg sync.WaitGroup

	unlock := k.Lock("a")
	unlock()
	unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		k.Lock("a")()
	}()
	wg.Wait()
	assert.Equal(t, 0, k.size())
}
