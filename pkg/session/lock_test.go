package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
)

// MockStore structure
type MockStore struct{}

func (m *MockStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	return nil
}
func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return nil, domain.ErrSessionNotFound
}
func (m *MockStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (m *MockStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&MockStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, sid, domain.NewState(sid))
		_, _ = mgr.UpdateOrStart(ctx, sid, func(ctx context.Context, s *domain.State) (*domain.State, error) {
			return s, nil
		})
		_ = mgr.Delete(ctx, sid)
	}

	lockCount := len(mgr.locks)
	t.Logf("Sessions Created: %d, Locks Leaked: %d", count, lockCount)

	if lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}

func TestManager_DistributedLockOrder(t *testing.T) {
	var events []string
	locker := ports.LockerFunc(func(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
		events = append(events, "lock:"+key+":"+ttl.String())
		return func(ctx context.Context) error {
			events = append(events, "unlock:"+key)
			return nil
		}, nil
	})

	mgr := NewManager(&MockStore{}, WithLocker(locker), WithLockTTL(time.Second))
	_, err := mgr.UpdateOrStart(context.Background(), "s", func(ctx context.Context, s *domain.State) (*domain.State, error) {
		events = append(events, "update")
		return s, nil
	})
	if err != nil {
		t.Fatalf("UpdateOrStart failed: %v", err)
	}

	want := []string{"lock:s:1s", "update", "unlock:s"}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestManager_DistributedLockError(t *testing.T) {
	locker := ports.LockerFunc(func(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
		return nil, errors.New("lock busy")
	})

	mgr := NewManager(&MockStore{}, WithLocker(locker))
	called := false
	_, err := mgr.UpdateOrStart(context.Background(), "s", func(ctx context.Context, s *domain.State) (*domain.State, error) {
		called = true
		return s, nil
	})
	if err == nil {
		t.Fatal("expected lock error")
	}
	if called {
		t.Error("update must not run without the lock")
	}
}
