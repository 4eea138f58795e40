// Шлюз доступа: один общий PIN даёт право записи, читать могут все.
package auth

import (
	"crypto/subtle"
	"sync"

	"go.uber.org/zap"

	"taskboard/internal/logger"
)

const fallbackPin = "696969"

// StateStore хранит флаг входа между запусками (запись "auth" локального
// хранилища). Ему удовлетворяет localstore.Store.
type StateStore interface {
	ReadAuth() bool
	WriteAuth(authenticated bool) error
}

// Gate выдаёт право записи после входа по PIN.
type Gate struct {
	secret string
	store  StateStore

	mtx           sync.Mutex
	authenticated bool
}

func NewGate(secret string, store StateStore) *Gate {
	if secret == "" {
		secret = fallbackPin
	}
	g := &Gate{
		secret: secret,
		store:  store,
	}
	if store != nil {
		g.authenticated = store.ReadAuth()
	}
	return g
}

// Login сравнивает PIN с секретом. Совпадение включает право записи и
// сохраняет его; промах возвращает false и ничего не меняет.
func (g *Gate) Login(pin string) bool {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(g.secret)) != 1 {
		logger.Warn("Auth: Неверный PIN")
		return false
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	g.authenticated = true
	if g.store != nil {
		if err := g.store.WriteAuth(true); err != nil {
			logger.Warn("Auth: Не удалось сохранить состояние входа", zap.Error(err))
		}
	}
	logger.Info("Auth: Вход выполнен")
	return true
}

// Logout сбрасывает состояние безусловно.
func (g *Gate) Logout() {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	g.authenticated = false
	if g.store != nil {
		if err := g.store.WriteAuth(false); err != nil {
			logger.Warn("Auth: Не удалось очистить состояние входа", zap.Error(err))
		}
	}
	logger.Info("Auth: Выход выполнен")
}

func (g *Gate) Authenticated() bool {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.authenticated
}
