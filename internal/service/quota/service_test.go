package quota_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/quota"
)

// memStore is an in-memory quota store for unit testing. Increment is
// atomic under the mutex, matching the contract of the SQL upsert.
type memStore struct {
	mu     sync.Mutex
	counts map[string]int
	fail   error // when set, all calls return this error
}

func newMemStore() *memStore {
	return &memStore{counts: make(map[string]int)}
}

func (m *memStore) GetCount(_ context.Context, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	return m.counts[date], nil
}

func (m *memStore) Increment(_ context.Context, date string, count, limit int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return 0, m.fail
	}
	if m.counts[date]+count > limit {
		return 0, quota.ErrCeiling
	}
	m.counts[date] += count
	return m.counts[date], nil
}

// stubProber returns a canned capacity result.
type stubProber struct {
	cap domain.ProviderCapacity
	err error
}

func (p stubProber) Capacity(_ context.Context) (domain.ProviderCapacity, error) {
	return p.cap, p.err
}

func TestReserve(t *testing.T) {
	svc := quota.NewService(newMemStore(), nil, 250, 25)

	st, err := svc.Reserve(context.Background(), 5)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if st.Used != 5 || st.Remaining != 245 {
		t.Fatalf("expected used=5 remaining=245, got %+v", st)
	}

	used, err := svc.GetDailyCount(context.Background())
	if err != nil {
		t.Fatalf("daily count: %v", err)
	}
	if used != 5 {
		t.Fatalf("expected 5 used, got %d", used)
	}
}

func TestReserveMonotonic(t *testing.T) {
	svc := quota.NewService(newMemStore(), nil, 100, 10)

	reserved := 0
	for _, n := range []int{10, 20, 30} {
		if _, err := svc.Reserve(context.Background(), n); err != nil {
			t.Fatalf("reserve %d: %v", n, err)
		}
		reserved += n
	}

	used, _ := svc.GetDailyCount(context.Background())
	if used != reserved {
		t.Fatalf("counter %d does not equal sum of reservations %d", used, reserved)
	}
}

func TestReserveDenied(t *testing.T) {
	svc := quota.NewService(newMemStore(), nil, 10, 2)

	if _, err := svc.Reserve(context.Background(), 8); err != nil {
		t.Fatalf("first reserve: %v", err)
	}

	_, err := svc.Reserve(context.Background(), 5)
	if !errors.Is(err, quota.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	var resErr *quota.ReservationError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ReservationError, got %T", err)
	}
	if resErr.Used != 8 || resErr.Limit != 10 || resErr.Requested != 5 {
		t.Fatalf("unexpected reservation error detail: %+v", resErr)
	}

	// The denied reservation must not have consumed anything.
	used, _ := svc.GetDailyCount(context.Background())
	if used != 8 {
		t.Fatalf("expected 8 used after denial, got %d", used)
	}
}

func TestReserveInvalidCount(t *testing.T) {
	svc := quota.NewService(newMemStore(), nil, 10, 2)
	for _, n := range []int{0, -3} {
		if _, err := svc.Reserve(context.Background(), n); !errors.Is(err, quota.ErrInvalidCount) {
			t.Fatalf("reserve(%d): expected ErrInvalidCount, got %v", n, err)
		}
	}
}

func TestReserveConcurrentRace(t *testing.T) {
	// Two concurrent reservations of limit/2+1 against a fresh day:
	// exactly one must win, and the counter must never exceed the limit.
	const limit = 100
	store := newMemStore()
	svc := quota.NewService(store, nil, limit, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), limit/2+1)
		}(i)
	}
	wg.Wait()

	var denied, granted int
	for _, err := range errs {
		if err == nil {
			granted++
		} else if errors.Is(err, quota.ErrQuotaExceeded) {
			denied++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if granted != 1 || denied != 1 {
		t.Fatalf("expected exactly one winner, got granted=%d denied=%d", granted, denied)
	}

	used, _ := svc.GetDailyCount(context.Background())
	if used > limit {
		t.Fatalf("counter %d exceeds limit %d", used, limit)
	}
}

func TestCanSend(t *testing.T) {
	svc := quota.NewService(newMemStore(), nil, 10, 2)
	svc.Reserve(context.Background(), 7)

	ok, st, err := svc.CanSend(context.Background(), 3)
	if err != nil || !ok {
		t.Fatalf("expected 3 to fit (err=%v ok=%v)", err, ok)
	}
	if st.Remaining != 3 {
		t.Fatalf("expected remaining=3, got %d", st.Remaining)
	}

	ok, _, _ = svc.CanSend(context.Background(), 4)
	if ok {
		t.Fatal("expected 4 to be refused")
	}

	// CanSend is a pure read.
	used, _ := svc.GetDailyCount(context.Background())
	if used != 7 {
		t.Fatalf("CanSend consumed quota: %d", used)
	}
}

func TestRollover(t *testing.T) {
	store := newMemStore()
	svc := quota.NewService(store, nil, 50, 5)

	day1 := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	quota.SetNowForTest(svc, func() time.Time { return day1 })

	if _, err := svc.Reserve(context.Background(), 50); err != nil {
		t.Fatalf("reserve day1: %v", err)
	}
	if ok, _, _ := svc.CanSend(context.Background(), 1); ok {
		t.Fatal("day1 should be exhausted")
	}

	// One hour later it is a new UTC day; remaining resets to the limit.
	quota.SetNowForTest(svc, func() time.Time { return day1.Add(time.Hour) })

	ok, st, err := svc.CanSend(context.Background(), 50)
	if err != nil || !ok {
		t.Fatalf("expected full quota on day2 (err=%v ok=%v state=%+v)", err, ok, st)
	}
	if st.Used != 0 || st.Remaining != 50 {
		t.Fatalf("expected fresh counter on day2, got %+v", st)
	}
}

func TestValidateSendRequestLocalDeny(t *testing.T) {
	svc := quota.NewService(newMemStore(), nil, 10, 2)
	svc.Reserve(context.Background(), 9)

	res, err := svc.ValidateSendRequest(context.Background(), 5)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Allowed {
		t.Fatal("expected deny")
	}
	if len(res.Reasons) != 1 || res.Reasons[0].Code != "local_quota_exceeded" {
		t.Fatalf("unexpected reasons: %+v", res.Reasons)
	}
}

func TestValidateSendRequestProviderDeny(t *testing.T) {
	prober := stubProber{cap: domain.ProviderCapacity{Known: true, MaxWindow: 200, SentInWindow: 198, Remaining: 2}}
	svc := quota.NewService(newMemStore(), prober, 100, 5)

	res, err := svc.ValidateSendRequest(context.Background(), 10)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Allowed {
		t.Fatal("expected provider-capacity deny")
	}
	if len(res.Reasons) != 1 || res.Reasons[0].Code != "provider_capacity_exceeded" {
		t.Fatalf("unexpected reasons: %+v", res.Reasons)
	}
	if res.EffectiveRemaining != 2 {
		t.Fatalf("effective remaining should be min(local, provider)=2, got %d", res.EffectiveRemaining)
	}
}

func TestValidateSendRequestProbeFailsOpen(t *testing.T) {
	prober := stubProber{err: fmt.Errorf("connection refused")}
	svc := quota.NewService(newMemStore(), prober, 100, 5)

	res, err := svc.ValidateSendRequest(context.Background(), 10)
	if err != nil {
		t.Fatalf("probe failure must not block: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("expected allow on probe failure, reasons: %+v", res.Reasons)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected a warning about the failed probe")
	}
	if res.EffectiveRemaining != 100 {
		t.Fatalf("effective remaining should fall back to local, got %d", res.EffectiveRemaining)
	}
}

func TestValidateSendRequestStoreFailsClosed(t *testing.T) {
	store := newMemStore()
	store.fail = fmt.Errorf("db down")
	svc := quota.NewService(store, nil, 100, 5)

	if _, err := svc.ValidateSendRequest(context.Background(), 1); err == nil {
		t.Fatal("local store failure must fail closed")
	}
}

func TestValidateSendRequestLowQuotaWarning(t *testing.T) {
	svc := quota.NewService(newMemStore(), nil, 30, 25)

	res, err := svc.ValidateSendRequest(context.Background(), 10)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !res.Allowed {
		t.Fatal("expected allow")
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected low-quota warning, got %+v", res.Warnings)
	}
}
