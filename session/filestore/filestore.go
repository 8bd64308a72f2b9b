// Package filestore persists the session as a single JSON document on disk,
// the Go counterpart of the browser local-storage / mobile async-storage keys
// the Wasteless apps use. Writes are atomic (temp file + rename) and the file
// is created with 0600 permissions since it holds bearer credentials.
package filestore

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/wastelessapp/wasteless-go/session"
)

var _ session.Store = (*Store)(nil)

// Store is a file-backed session.Store.
type Store struct {
	path string
	aead func() ([]byte, error) // nil when the file is stored in plaintext
	lock sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithSecret seals the session file with ChaCha20-Poly1305, deriving the key
// from secret via HKDF-SHA256. Without a secret the file is plain JSON.
func WithSecret(secret []byte) Option {
	return func(s *Store) {
		if len(secret) == 0 {
			return
		}
		s.aead = func() ([]byte, error) {
			key := make([]byte, chacha20poly1305.KeySize)
			kdf := hkdf.New(sha256.New, secret, nil, []byte("wasteless-session"))
			if _, err := io.ReadFull(kdf, key); err != nil {
				return nil, err
			}
			return key, nil
		}
	}
}

// New creates a Store persisting to the given path. The parent directory is
// created on first Save, not here, so constructing a store never touches disk.
func New(path string, options ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Current returns the stored session, or session.ErrNoSession when the file
// does not exist or holds no credentials.
func (s *Store) Current() (session.Session, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.read()
}

// AccessToken returns the stored access token, or "" when absent.
func (s *Store) AccessToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sess, err := s.read()
	if err != nil {
		return ""
	}
	return sess.AccessToken
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	s.lock.RLock()
	defer s.lock.RUnlock()

	sess, err := s.read()
	if err != nil {
		return ""
	}
	return sess.RefreshToken
}

// Save overwrites the stored session. The write is atomic: the new content is
// written to a temp file in the same directory and renamed over the old one.
func (s *Store) Save(sess session.Session) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "[filestore.Save] marshal session")
	}

	if s.aead != nil {
		if data, err = s.seal(data); err != nil {
			return errors.Wrap(err, "[filestore.Save] seal session")
		}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "[filestore.Save] create session dir")
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "[filestore.Save] create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[filestore.Save] chmod temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "[filestore.Save] write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "[filestore.Save] close temp file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrap(err, "[filestore.Save] rename temp file")
	}
	return nil
}

// Clear removes the session file. Clearing an already-empty store is a no-op.
func (s *Store) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[filestore.Clear] remove session file")
	}
	return nil
}

func (s *Store) read() (session.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, errors.Wrap(err, "[filestore.read] read session file")
	}

	if s.aead != nil {
		if data, err = s.open(data); err != nil {
			return session.Session{}, errors.Wrap(err, "[filestore.read] open sealed session")
		}
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return session.Session{}, errors.Wrap(err, "[filestore.read] unmarshal session")
	}
	if sess.IsZero() {
		return session.Session{}, session.ErrNoSession
	}
	return sess, nil
}

func (s *Store) seal(plaintext []byte) ([]byte, error) {
	key, err := s.aead()
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *Store) open(ciphertext []byte) ([]byte, error) {
	key, err := s.aead()
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aead.NonceSize() {
		return nil, errors.New("sealed session too short")
	}
	nonce, sealed := ciphertext[:aead.NonceSize()], ciphertext[aead.NonceSize():]
	return aead.Open(nil, nonce, sealed, nil)
}
