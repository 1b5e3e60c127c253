package session

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string {
	return "oh:session:access:" + accessID
}

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateStoresToken(t *testing.T) {
	m, store := newTestManager()

	token, err := m.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if token == "" {
		t.Fatal("empty refresh token")
	}
	if store.values["oh:session:access:access-1"] != token {
		t.Fatal("token not persisted under the access key")
	}
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	m, store := newTestManager()

	oldToken, err := m.Generate(context.Background(), "access-1")
	if err != nil {
		t.Fatal(err)
	}

	newID, newToken, err := m.Rotate(context.Background(), "access-1", oldToken)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if newID == "access-1" || newToken == oldToken {
		t.Fatal("rotation reused old identifiers")
	}
	if _, ok := store.values["oh:session:access:access-1"]; ok {
		t.Fatal("old session not deleted")
	}
	if store.values["oh:session:access:"+newID] != newToken {
		t.Fatal("new session not stored")
	}
}

func TestRotateRejectsWrongToken(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.Generate(context.Background(), "access-1"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := m.Rotate(context.Background(), "access-1", "forged"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRotateUnknownAccessID(t *testing.T) {
	m, _ := newTestManager()
	if _, _, err := m.Rotate(context.Background(), "ghost", "anything"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("err = %v, want ErrInvalidRefreshToken", err)
	}
}

func TestRevokeAndHasSession(t *testing.T) {
	m, _ := newTestManager()
	if _, err := m.Generate(context.Background(), "access-1"); err != nil {
		t.Fatal(err)
	}

	ok, err := m.HasSession(context.Background(), "access-1")
	if err != nil || !ok {
		t.Fatalf("HasSession = %v, %v", ok, err)
	}

	if err := m.Revoke(context.Background(), "access-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	ok, err = m.HasSession(context.Background(), "access-1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("session still live after revoke")
	}
}
