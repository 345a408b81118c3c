package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/product-catalog/internal/domain"
	"github.com/spec-kit/product-catalog/internal/events"
)

// -------- test fakes --------

type fakeProductRepo struct {
	mu    sync.Mutex
	items map[string]domain.Product
	order []string
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{items: map[string]domain.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product.ID = uuid.NewString()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	f.items[product.ID] = *product
	f.order = append(f.order, product.ID)
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	product.UpdatedAt = time.Now()
	f.items[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &product, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListPage serves pages in insertion order, which matches the default
// created_at ascending sort of the real repository.
func (f *fakeProductRepo) ListPage(_ context.Context, offset, limit int, _ string) ([]domain.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := int64(len(f.order))
	if offset >= len(f.order) {
		return []domain.Product{}, total, nil
	}
	end := offset + limit
	if end > len(f.order) {
		end = len(f.order)
	}
	page := make([]domain.Product, 0, end-offset)
	for _, id := range f.order[offset:end] {
		page = append(page, f.items[id])
	}
	return page, total, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	f.users[user.Login] = *user
	return nil
}

func (f *fakeUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[login]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (f *fakeUserRepo) ExistsByLogin(_ context.Context, login string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[login]
	return ok, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	matched := make([]events.Event, 0)
	for _, event := range d.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}
