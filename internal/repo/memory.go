package repo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrDuplicateLogin = errors.New("login already taken")

// Memory keeps users and runs in process memory. It backs local runs
// without DATABASE_URL and the handler tests.
type Memory struct {
	mu     sync.Mutex
	users  map[string]memoryUser
	runs   []Run
	nextID int
	now    func() time.Time
}

type memoryUser struct {
	id   int
	hash string
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]memoryUser), now: time.Now}
}

func (m *Memory) CreateUser(_ context.Context, login, _ string, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, ErrDuplicateLogin
	}
	m.nextID++
	m.users[login] = memoryUser{id: m.nextID, hash: password}
	return m.nextID, nil
}

func (m *Memory) GetByLogin(_ context.Context, login string) (int, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", nil
	}
	return u.id, u.hash, nil
}

func (m *Memory) SaveRun(_ context.Context, run Run) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	run.CreatedAt = m.now()
	m.runs = append(m.runs, run)
	return run.ID, nil
}

func (m *Memory) ListRuns(_ context.Context, userID, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Run{}
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.runs[i].UserID == userID {
			out = append(out, m.runs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
