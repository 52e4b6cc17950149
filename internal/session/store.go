// Package session реализует хранилище текущей сессии — единственный
// источник истины о том, аутентифицирован ли пользователь.
//
// Хранилище создается при старте приложения и внедряется в зависимые
// компоненты. Подписчики получают уведомление о каждом переходе состояния
// (вход, выход, принудительное завершение); каждая подписка возвращает
// функцию отписки, которую вызывающая сторона обязана вызвать при
// завершении работы.
package session

import (
	"sync"

	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

// State — состояние хранилища сессии.
type State int

const (
	// StateUnauthenticated сессии нет
	StateUnauthenticated State = iota
	// StateAuthenticating выполняется попытка входа
	StateAuthenticating
	// StateAuthenticated есть активная сессия
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Handler вызывается при каждом переходе состояния.
// При выходе передается nil.
type Handler func(session *models.Session)

// Store хранит не более одной активной сессии на процесс.
type Store struct {
	mu       sync.Mutex
	state    State
	current  *models.Session
	handlers map[int]Handler
	nextID   int
}

// NewStore создает пустое хранилище в состоянии Unauthenticated.
func NewStore() *Store {
	return &Store{
		state:    StateUnauthenticated,
		handlers: make(map[int]Handler),
	}
}

// Current возвращает активную сессию или nil. Не имеет побочных эффектов.
func (s *Store) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// State возвращает текущее состояние хранилища.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe регистрирует обработчик переходов состояния и возвращает
// функцию отписки. Повторный вызов функции отписки безопасен.
func (s *Store) Subscribe(h Handler) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
}

// BeginAuthentication переводит хранилище в состояние Authenticating.
// Любая прежняя сессия при этом сбрасывается.
func (s *Store) BeginAuthentication() {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.current = nil
	s.mu.Unlock()
}

// SetSession сохраняет установленную сессию и уведомляет подписчиков.
func (s *Store) SetSession(sess *models.Session) {
	s.mu.Lock()
	s.state = StateAuthenticated
	s.current = sess
	handlers := s.snapshotHandlers()
	s.mu.Unlock()

	for _, h := range handlers {
		h(sess)
	}
}

// FailAuthentication возвращает хранилище в Unauthenticated после
// неуспешной попытки входа.
func (s *Store) FailAuthentication() {
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.current = nil
	s.mu.Unlock()
}

// SignOut безусловно завершает сессию. Идемпотентен: повторный вызов
// без активной сессии не является ошибкой и не уведомляет подписчиков.
func (s *Store) SignOut() {
	s.mu.Lock()
	hadSession := s.current != nil || s.state != StateUnauthenticated
	s.state = StateUnauthenticated
	s.current = nil
	var handlers []Handler
	if hadSession {
		handlers = s.snapshotHandlers()
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(nil)
	}
}

// snapshotHandlers вызывается под мьютексом.
func (s *Store) snapshotHandlers() []Handler {
	handlers := make([]Handler, 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	return handlers
}
