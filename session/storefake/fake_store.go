package storefake

import (
	"sync"

	"github.com/wastelessapp/wasteless-go/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory session.Store for tests.
type FakeStore struct {
	sess   *session.Session
	saves  int
	clears int
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (f *FakeStore) Current() (session.Session, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()
	if f.sess == nil {
		return session.Session{}, session.ErrNoSession
	}
	return *f.sess, nil
}

func (f *FakeStore) AccessToken() string {
	f.lock.RLock()
	defer f.lock.RUnlock()
	if f.sess == nil {
		return ""
	}
	return f.sess.AccessToken
}

func (f *FakeStore) RefreshToken() string {
	f.lock.RLock()
	defer f.lock.RUnlock()
	if f.sess == nil {
		return ""
	}
	return f.sess.RefreshToken
}

func (f *FakeStore) Save(sess session.Session) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.sess = &sess
	f.saves++
	return nil
}

func (f *FakeStore) Clear() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.sess = nil
	f.clears++
	return nil
}

// Saves reports how many times Save has been called.
func (f *FakeStore) Saves() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.saves
}

// Clears reports how many times Clear has been called.
func (f *FakeStore) Clears() int {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.clears
}
