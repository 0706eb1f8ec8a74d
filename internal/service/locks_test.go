package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorLocks_SerializesPerDoctor(t *testing.T) {
	locks := newDoctorLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("doc-1")
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			holders--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locks.size())
}

func TestDoctorLocks_DoctorsAreIndependent(t *testing.T) {
	locks := newDoctorLocks()
	unlockA := locks.Lock("doc-a")

	done := make(chan struct{})
	go func() {
		locks.Lock("doc-b")()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock for doc-b blocked behind doc-a")
	}
	assert.Equal(t, 1, locks.size())
	unlockA()
	assert.Equal(t, 0, locks.size())
}

func TestBook_UnknownDoctorsDoNotAccumulateLocks(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 200; i++ {
		_, err := f.svc.Book(context.Background(), f.asPatient, BookRequest{
			DoctorID:  fmt.Sprintf("made-up-%d", i),
			Date:      day,
			StartTime: "09:00",
			EndTime:   "09:20",
		})
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
	}
	assert.Equal(t, 0, f.svc.locks.size())
}
