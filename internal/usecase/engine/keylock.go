package engine

import (
	"fmt"
	"sync"
	"time"
)

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// keyLocks сериализует запуски по ключу (company, rule, worker, window).
// Разные ключи выполняются полностью параллельно. Ключ без ожидающих
// удаляется из карты, чтобы она не росла с каждым новым окном.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*keyLock)}
}

func evaluationKey(companyID, ruleID, workerID string, windowStart time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d", companyID, ruleID, workerID, windowStart.Unix())
}

// acquire блокирует ключ и возвращает функцию разблокировки
func (k *keyLocks) acquire(key string) func() {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		k.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyLocks) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
