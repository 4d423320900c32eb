package create_booking

import (
	"context"
	"errors"
	"sync"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	eventRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/event"
	slotRepo "github.com/m04kA/SMC-OpenHouseService/internal/infra/storage/slot"
)

// memoryStore in-memory хранилище, общее для всех фейковых репозиториев
type memoryStore struct {
	mu       sync.Mutex
	events   map[int64]*domain.OpenHouseEvent
	slots    map[int64]*domain.TimeSlot
	clients  map[string]*domain.Client
	bookings []*domain.Booking
	nextID   int64

	createErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		events:  make(map[int64]*domain.OpenHouseEvent),
		slots:   make(map[int64]*domain.TimeSlot),
		clients: make(map[string]*domain.Client),
		nextID:  1000,
	}
}

func (s *memoryStore) occupying(slotID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, b := range s.bookings {
		if b.SlotID == slotID && b.OccupiesSeat() {
			count++
		}
	}
	return count
}

type fakeEventRepo struct{ store *memoryStore }

func (r fakeEventRepo) GetByID(_ context.Context, id int64) (*domain.OpenHouseEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	e, ok := r.store.events[id]
	if !ok {
		return nil, eventRepo.ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

type fakeSlotRepo struct{ store *memoryStore }

func (r fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

type fakeClientRepo struct{ store *memoryStore }

func (r fakeClientRepo) Upsert(_ context.Context, c *domain.Client) (*domain.Client, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.clients[c.Email]; ok {
		existing.FirstName = c.FirstName
		existing.LastName = c.LastName
		existing.Phone = c.Phone
		existing.PrivacyAccepted = existing.PrivacyAccepted || c.PrivacyAccepted
		copied := *existing
		return &copied, nil
	}
	r.store.nextID++
	stored := *c
	stored.ID = r.store.nextID
	r.store.clients[c.Email] = &stored
	copied := stored
	return &copied, nil
}

type fakeBookingRepo struct{ store *memoryStore }

func (r fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.createErr != nil {
		return nil, r.store.createErr
	}
	r.store.nextID++
	b.ID = r.store.nextID
	stored := *b
	r.store.bookings = append(r.store.bookings, &stored)
	return b, nil
}

func (r fakeBookingRepo) CountOccupying(_ context.Context, slotID int64) (int, error) {
	return r.store.occupying(slotID), nil
}

// lockingTxManager сериализует транзакции, как это делает блокировка строки слота
type lockingTxManager struct {
	mu sync.Mutex
}

func (m *lockingTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type enqueued struct {
	bookingID int64
	kind      domain.NotificationKind
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []enqueued
	err  error
}

func (n *fakeNotifier) Enqueue(_ context.Context, bookingID int64, kind domain.NotificationKind) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.jobs = append(n.jobs, enqueued{bookingID: bookingID, kind: kind})
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *fakeMetrics) IncAdmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = make(map[string]int)
	}
	m.outcomes[outcome]++
}

var errDatabaseDown = errors.New("database down")
