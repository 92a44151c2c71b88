package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/richfrem/quoteagent/pkg/ports"
)

// EnvelopeKey holds the ciphertext inside the stored envelope.
const EnvelopeKey = "__encrypted__"

// ErrNotEncrypted is returned when a stored session has no envelope.
var ErrNotEncrypted = errors.New("session is missing encrypted data envelope")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey encrypts new data. Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys are tried in order when the active key cannot decrypt,
	// so keys can be rotated without dropping sessions.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.SessionStore
	config EncryptionConfig
}

// NewEncryptionMiddleware returns a middleware that stores sessions as
// AES-GCM sealed envelopes. Only the id and timestamps stay readable, so
// listing and idle sweeps keep working on the wrapped store.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, fmt.Errorf("active key must be 32 bytes (AES-256), got %d", len(config.ActiveKey))
	}
	for i, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key %d must be 32 bytes (AES-256), got %d", i, len(k))
		}
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &encryptionMiddleware{next: next, config: config}
	}, nil
}

func (m *encryptionMiddleware) Put(ctx context.Context, session *domain.Session) error {
	plainText, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ciphertext, err := encrypt(plainText, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	envelope := &domain.Session{
		ID:         session.ID,
		Captured:   map[string]string{EnvelopeKey: base64.StdEncoding.EncodeToString(ciphertext)},
		Answers:    []domain.Answer{},
		Transcript: []domain.Message{},
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
	return m.next.Put(ctx, envelope)
}

func (m *encryptionMiddleware) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	envelope, err := m.next.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Plain sessions are refused rather than passed through.
	encoded, ok := envelope.Captured[EnvelopeKey]
	if !ok {
		return nil, ErrNotEncrypted
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
	}

	plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(plainText, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decrypted session: %w", err)
	}
	return &session, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *encryptionMiddleware) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	return m.next.Sweep(ctx, maxAge)
}

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
