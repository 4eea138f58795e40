package auth

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Nop()
	os.Exit(m.Run())
}

type fakeStateStore struct {
	authenticated bool
	writeErr      error
}

func (f *fakeStateStore) ReadAuth() bool {
	return f.authenticated
}

func (f *fakeStateStore) WriteAuth(authenticated bool) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.authenticated = authenticated
	return nil
}

func TestLoginCorrectPin(t *testing.T) {
	gate := NewGate("696969", nil)

	assert.False(t, gate.Authenticated())
	assert.True(t, gate.Login("696969"))
	assert.True(t, gate.Authenticated())
}

func TestLoginWrongPin(t *testing.T) {
	gate := NewGate("696969", nil)

	assert.False(t, gate.Login("000000"))
	assert.False(t, gate.Login(""))
	assert.False(t, gate.Login("69696"))
	assert.False(t, gate.Authenticated())
}

func TestEmptySecretFallsBackToDefaultPin(t *testing.T) {
	gate := NewGate("", nil)

	assert.True(t, gate.Login("696969"))
}

func TestLoginStatePersistsAcrossRestart(t *testing.T) {
	store := &fakeStateStore{}

	gate := NewGate("696969", store)
	assert.True(t, gate.Login("696969"))

	// новый шлюз поверх того же хранилища видит сохранённый вход
	restarted := NewGate("696969", store)
	assert.True(t, restarted.Authenticated())
}

func TestLogoutClearsPersistedState(t *testing.T) {
	store := &fakeStateStore{authenticated: true}

	gate := NewGate("696969", store)
	assert.True(t, gate.Authenticated())

	gate.Logout()
	assert.False(t, gate.Authenticated())
	assert.False(t, store.authenticated)

	restarted := NewGate("696969", store)
	assert.False(t, restarted.Authenticated())
}

// Отказ хранилища не мешает текущему сеансу: право записи выдаётся,
// просто не переживёт перезапуск.
func TestLoginSurvivesStoreWriteFailure(t *testing.T) {
	store := &fakeStateStore{writeErr: errors.New("диск только для чтения")}

	gate := NewGate("696969", store)
	assert.True(t, gate.Login("696969"))
	assert.True(t, gate.Authenticated())
}

func TestFailedLoginDoesNotTouchStore(t *testing.T) {
	store := &fakeStateStore{}

	gate := NewGate("696969", store)
	assert.False(t, gate.Login("111111"))
	assert.False(t, store.authenticated)
}
