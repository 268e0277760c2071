package main

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-rental-booking/internal/model"
	"github.com/iliyamo/car-rental-booking/internal/repository"
)

type fakeUsers struct {
	byName   map[string]model.User
	promoted []int64
	nextID   int64
}

func (f *fakeUsers) Create(_ context.Context, username, _, role string, _ int) (model.User, error) {
	if _, ok := f.byName[username]; ok {
		return model.User{}, repository.ErrDuplicate
	}
	f.nextID++
	u := model.User{ID: f.nextID, Username: username, Role: role}
	f.byName[username] = u
	return u, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) SetRole(_ context.Context, id int64, role string) error {
	for name, u := range f.byName {
		if u.ID == id {
			u.Role = role
			f.byName[name] = u
			f.promoted = append(f.promoted, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func TestEnsureAdminCreates(t *testing.T) {
	users := &fakeUsers{byName: map[string]model.User{}}
	u, err := ensureAdmin(context.Background(), users, "root", "pw", 4)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Empty(t, users.promoted)
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	users := &fakeUsers{byName: map[string]model.User{
		"alice": {ID: 3, Username: "alice", Role: model.RoleCustomer},
	}, nextID: 3}
	u, err := ensureAdmin(context.Background(), users, "alice", "ignored", 4)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.Equal(t, []int64{3}, users.promoted)

	// already an admin: nothing to do
	_, err = ensureAdmin(context.Background(), users, "alice", "ignored", 4)
	require.NoError(t, err)
	assert.Len(t, users.promoted, 1)
}

type failingUsers struct{ fakeUsers }

func (f *failingUsers) Create(context.Context, string, string, string, int) (model.User, error) {
	return model.User{}, errors.New("connection refused")
}

func TestEnsureAdminPropagatesErrors(t *testing.T) {
	_, err := ensureAdmin(context.Background(), &failingUsers{}, "root", "pw", 4)
	assert.ErrorContains(t, err, "create admin")
}

func TestAppCommands(t *testing.T) {
	app := newApp()
	names := map[string]bool{}
	for _, c := range app.Commands {
		names[c.Name] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["create-admin"])
}
