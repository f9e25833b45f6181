// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-task-sync/internal/logger"
	"github.com/MKhiriev/go-task-sync/models"
)

// ServerStorages groups the development server repositories.
type ServerStorages struct {
	Users   UserRepository
	Records RemoteRecordRepository
}

// NewServerStorages returns in-memory development server storage. Data is
// lost on restart.
func NewServerStorages(logger *logger.Logger) *ServerStorages {
	mem := newMemoryStorage(time.Now)
	logger.Debug().Msg("created in-memory server storage")
	return &ServerStorages{Users: mem, Records: mem}
}

// memoryStorage implements [UserRepository] and [RemoteRecordRepository]
// with maps guarded by one mutex.
type memoryStorage struct {
	mu  sync.RWMutex
	now func() time.Time

	nextID  int64
	users   map[int64]models.User
	tasks   map[int64]ServerTask
	tags    map[int64]ServerTag
	updates map[int64]ServerUpdate
}

func newMemoryStorage(now func() time.Time) *memoryStorage {
	return &memoryStorage{
		now:     now,
		users:   make(map[int64]models.User),
		tasks:   make(map[int64]ServerTask),
		tags:    make(map[int64]ServerTag),
		updates: make(map[int64]ServerUpdate),
	}
}

func (m *memoryStorage) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStorage) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			logger.FromContext(ctx).Warn().Str("func", "memoryStorage.CreateUser").Str("email", user.Email).Msg("email taken")
			return models.User{}, ErrEmailAlreadyExists
		}
	}

	user.UserID = m.id()
	user.CreatedAt = m.now()
	m.users[user.UserID] = user

	return user, nil
}

func (m *memoryStorage) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *memoryStorage) FindUserByID(_ context.Context, id int64) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *memoryStorage) FindTask(_ context.Context, id int64) (ServerTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[id]
	if !ok {
		return ServerTask{}, ErrNotFound
	}
	t.TagIDs = slices.Clone(t.TagIDs)
	return t, nil
}

// SaveTask creates the task when task.ID is zero and replaces it otherwise.
func (m *memoryStorage) SaveTask(_ context.Context, task ServerTask) (ServerTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().Unix()
	if task.ID == 0 {
		task.ID = m.id()
		if task.CreatedAt == 0 {
			task.CreatedAt = now
		}
	} else if _, ok := m.tasks[task.ID]; !ok {
		return ServerTask{}, ErrNotFound
	}

	task.ModifiedAt = now
	task.TagIDs = slices.Clone(task.TagIDs)
	m.tasks[task.ID] = task

	return task, nil
}

func (m *memoryStorage) ListTasks(_ context.Context, filter ServerListFilter) ([]ServerTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ServerTask
	for _, t := range m.tasks {
		if t.ModifiedAt < filter.ModifiedAfter {
			continue
		}
		if filter.TagID != 0 && !slices.Contains(t.TagIDs, filter.TagID) {
			continue
		}
		if filter.VisibleTo != 0 && !m.taskVisibleLocked(t, filter.VisibleTo) {
			continue
		}
		t.TagIDs = slices.Clone(t.TagIDs)
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b ServerTask) int { return int(a.ID - b.ID) })

	return out, nil
}

func (m *memoryStorage) taskVisibleLocked(t ServerTask, userID int64) bool {
	if t.OwnerID == userID {
		return true
	}
	for _, tagID := range t.TagIDs {
		if tag, ok := m.tags[tagID]; ok && tagVisible(tag, userID) {
			return true
		}
	}
	return false
}

func (m *memoryStorage) FindTag(_ context.Context, id int64) (ServerTag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tags[id]
	if !ok {
		return ServerTag{}, ErrNotFound
	}
	t.Members = slices.Clone(t.Members)
	return t, nil
}

// FindTagByName looks among tags visible to ownerID.
func (m *memoryStorage) FindTagByName(_ context.Context, ownerID int64, name string) (ServerTag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *ServerTag
	for _, t := range m.tags {
		if !strings.EqualFold(t.Name, name) || !tagVisible(t, ownerID) {
			continue
		}
		if found == nil || t.ID < found.ID {
			t := t
			found = &t
		}
	}
	if found == nil {
		return ServerTag{}, ErrNotFound
	}

	out := *found
	out.Members = slices.Clone(out.Members)
	return out, nil
}

func (m *memoryStorage) SaveTag(_ context.Context, tag ServerTag) (ServerTag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tag.ID == 0 {
		tag.ID = m.id()
	} else if _, ok := m.tags[tag.ID]; !ok {
		return ServerTag{}, ErrNotFound
	}

	tag.ModifiedAt = m.now().Unix()
	tag.Members = slices.Clone(tag.Members)
	m.tags[tag.ID] = tag

	return tag, nil
}

func (m *memoryStorage) ListTags(_ context.Context, filter ServerListFilter) ([]ServerTag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ServerTag
	for _, t := range m.tags {
		if t.ModifiedAt < filter.ModifiedAfter {
			continue
		}
		if filter.VisibleTo != 0 && !tagVisible(t, filter.VisibleTo) {
			continue
		}
		t.Members = slices.Clone(t.Members)
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b ServerTag) int { return int(a.ID - b.ID) })

	return out, nil
}

func (m *memoryStorage) AddUpdate(_ context.Context, update ServerUpdate) (ServerUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().Unix()
	update.ID = m.id()
	if update.CreatedAt == 0 {
		update.CreatedAt = now
	}
	update.ModifiedAt = now
	m.updates[update.ID] = update

	if update.TaskID != 0 {
		if t, ok := m.tasks[update.TaskID]; ok {
			t.CommentCount++
			t.ModifiedAt = now
			m.tasks[t.ID] = t
		}
	}

	return update, nil
}

func (m *memoryStorage) ListUpdates(_ context.Context, filter ServerListFilter) ([]ServerUpdate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ServerUpdate
	for _, u := range m.updates {
		if u.ModifiedAt < filter.ModifiedAfter {
			continue
		}
		if filter.TagID != 0 && u.TagID != filter.TagID {
			continue
		}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b ServerUpdate) int { return int(a.ID - b.ID) })

	return out, nil
}

// tagVisible reports whether userID owns tag or is one of its members.
func tagVisible(tag ServerTag, userID int64) bool {
	if tag.OwnerID == userID {
		return true
	}
	for _, member := range tag.Members {
		if member.ID == userID {
			return true
		}
	}
	return false
}
