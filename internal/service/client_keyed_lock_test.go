package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-task-sync/models"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	locks := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		inside  int
		maxSeen int
		mu      sync.Mutex
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(entityKey(models.KindTask, 1))
			defer unlock()

			mu.Lock()
			inside++
			maxSeen = max(maxSeen, inside)
			mu.Unlock()

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, locks.locks, "released keys are forgotten")
}

func TestKeyedMutex_DifferentKeysDoNotBlock(t *testing.T) {
	locks := newKeyedMutex()

	unlockA := locks.Lock(entityKey(models.KindTask, 1))
	unlockB := locks.Lock(entityKey(models.KindTagGroup, 1))

	unlockB()
	unlockA()
}

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "task:5", entityKey(models.KindTask, 5))
	assert.Equal(t, "tag_group:5", entityKey(models.KindTagGroup, 5))
}
