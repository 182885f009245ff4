package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ideaforge-be/internal/common"
	"ideaforge-be/internal/entities"
	"ideaforge-be/internal/workflow"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entities.User
	nextID int
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entities.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, email, passwordHash string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.users[email]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.nextID++
	u := &entities.User{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeIdeaRepo struct {
	batches   []*entities.BusinessIdea
	createErr error
	findErr   error
	created   int
}

func (f *fakeIdeaRepo) Create(_ context.Context, userID, niche string, ideas []entities.Idea, webSearchUsed bool) (*entities.BusinessIdea, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	b := &entities.BusinessIdea{
		ID:            fmt.Sprintf("batch-%d", f.created),
		UserID:        userID,
		Niche:         niche,
		Ideas:         ideas,
		WebSearchUsed: webSearchUsed,
		CreatedAt:     time.Now(),
	}
	// newest first, like the real query
	f.batches = append([]*entities.BusinessIdea{b}, f.batches...)
	return b, nil
}

func (f *fakeIdeaRepo) FindByUserID(_ context.Context, userID string, limit int) ([]*entities.BusinessIdea, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := []*entities.BusinessIdea{}
	for _, b := range f.batches {
		if b.UserID == userID && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeIdeaRepo) FindByID(_ context.Context, id string) (*entities.BusinessIdea, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, b := range f.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeGenerator struct {
	result *workflow.Result
	err    error
	calls  int
}

func (f *fakeGenerator) Run(_ context.Context, niche string, webSearchEnabled bool) (*workflow.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

var errDB = errors.New("connection reset")

func validIdeas() []entities.Idea {
	return []entities.Idea{
		{Name: "A", Pitch: "pa", Audience: "aa", RevenueModel: "ra"},
		{Name: "B", Pitch: "pb", Audience: "ab", RevenueModel: "rb"},
		{Name: "C", Pitch: "pc", Audience: "ac", RevenueModel: "rc"},
	}
}
