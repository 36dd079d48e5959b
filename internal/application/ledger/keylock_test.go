package ledger

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLocker_ExclusionPorClave(t *testing.T) {
	l := NewKeyLocker()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("a")
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, l.size(), "las claves sin uso se liberan")
}

func TestKeyLocker_ConjuntosSolapadosNoSeBloquean(t *testing.T) {
	l := NewKeyLocker()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.Lock("x", "y", "z")()
		}()
		go func() {
			defer wg.Done()
			l.Lock("z", "x", "x")()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, l.size())
}

func TestUniqueSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, uniqueSorted([]string{"c", "a", "b", "a", "c"}))
	assert.Empty(t, uniqueSorted(nil))
}
