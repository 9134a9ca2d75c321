package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/events"
	"github.com/fairgrounds/registration-service/internal/repository"
	"github.com/fairgrounds/registration-service/pkg/util"
)

// fakeRegistrationRepo is an in-memory RegistrationRepository mirroring
// the filtering and ordering semantics of the Postgres implementation.
type fakeRegistrationRepo struct {
	mu    sync.Mutex
	items map[string]domain.Registration
	seq   int
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{items: map[string]domain.Registration{}}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	reg.ID = uuid.NewString()
	reg.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	reg.UpdatedAt = reg.CreatedAt
	f.items[reg.ID] = *reg
	return nil
}

func (f *fakeRegistrationRepo) Update(_ context.Context, reg *domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[reg.ID]; !ok {
		return pgx.ErrNoRows
	}
	reg.UpdatedAt = time.Now()
	f.items[reg.ID] = *reg
	return nil
}

func (f *fakeRegistrationRepo) GetByID(_ context.Context, id string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := reg
	return &out, nil
}

func (f *fakeRegistrationRepo) List(_ context.Context, filter repository.RegistrationFilter) ([]domain.Registration, error) {
	matched := f.match(filter)
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (f *fakeRegistrationRepo) Count(_ context.Context, filter repository.RegistrationFilter) (int64, error) {
	return int64(len(f.match(filter))), nil
}

func (f *fakeRegistrationRepo) ListAll(_ context.Context) ([]domain.Registration, error) {
	return f.match(repository.RegistrationFilter{}), nil
}

func (f *fakeRegistrationRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRegistrationRepo) match(filter repository.RegistrationFilter) []domain.Registration {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]domain.Registration, 0, len(f.items))
	for _, reg := range f.items {
		if filter.Status != nil && reg.Status != *filter.Status {
			continue
		}
		if filter.Search != nil && !searchMatches(reg, *filter.Search) {
			continue
		}
		matched = append(matched, reg)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched
}

func searchMatches(reg domain.Registration, term string) bool {
	term = strings.ToLower(term)
	haystacks := []string{reg.FirstName, reg.LastName, reg.Email}
	if reg.CompanyName != nil {
		haystacks = append(haystacks, *reg.CompanyName)
	}
	for _, hay := range haystacks {
		if strings.Contains(strings.ToLower(hay), term) {
			return true
		}
	}
	return false
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	items map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: map[string]domain.User{}}
}

// emailTakenLocked mirrors the unique index on users.email. Callers must
// hold f.mu.
func (f *fakeUserRepo) emailTakenLocked(email, excludeID string) bool {
	for _, user := range f.items {
		if user.ID != excludeID && user.Email == email {
			return true
		}
	}
	return false
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emailTakenLocked(user.Email, "") {
		return util.NewConflict("email is already taken by another user", map[string]any{"field": "email"})
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.items[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	if f.emailTakenLocked(user.Email, user.ID) {
		return util.NewConflict("email is already taken by another user", map[string]any{"field": "email"})
	}
	user.UpdatedAt = time.Now()
	f.items[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := user
	return &out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.items {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := make([]domain.User, 0, len(f.items))
	for _, user := range f.items {
		if filter.Search != nil {
			term := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(user.Name), term) &&
				!strings.Contains(strings.ToLower(user.Email), term) {
				continue
			}
		}
		matched = append(matched, user)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Email < matched[j].Email
	})
	if filter.Offset >= len(matched) {
		return nil, nil
	}
	end := filter.Offset + filter.Limit
	if filter.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], nil
}

func (f *fakeUserRepo) Count(_ context.Context, filter repository.UserFilter) (int64, error) {
	users, _ := f.List(context.Background(), repository.UserFilter{Search: filter.Search, Limit: len(f.items), Offset: 0})
	return int64(len(users)), nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.LastLogin = &at
	f.items[id] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

// recordingDispatcher captures published events for assertions.
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

func (d *recordingDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
