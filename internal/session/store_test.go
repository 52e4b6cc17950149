package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/subscription-gate/internal/models"
)

func testSession() *models.Session {
	return &models.Session{
		Token:     "tok",
		UserUID:   "uid-1",
		Email:     "test@example.com",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestStore_InitialState(t *testing.T) {
	store := NewStore()

	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Nil(t, store.Current())
}

func TestStore_AuthenticationFlow(t *testing.T) {
	store := NewStore()

	store.BeginAuthentication()
	assert.Equal(t, StateAuthenticating, store.State())
	assert.Nil(t, store.Current())

	sess := testSession()
	store.SetSession(sess)
	assert.Equal(t, StateAuthenticated, store.State())
	assert.Equal(t, sess, store.Current())
}

func TestStore_FailAuthentication(t *testing.T) {
	store := NewStore()

	store.BeginAuthentication()
	store.FailAuthentication()

	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Nil(t, store.Current())
}

func TestStore_SignOut(t *testing.T) {
	store := NewStore()
	store.SetSession(testSession())

	store.SignOut()

	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Nil(t, store.Current())
}

func TestStore_SignOutWithoutSession(t *testing.T) {
	store := NewStore()

	var notified int
	unsubscribe := store.Subscribe(func(_ *models.Session) {
		notified++
	})
	defer unsubscribe()

	store.SignOut()
	store.SignOut()

	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Zero(t, notified, "sign-out without a session must not notify")
}

func TestStore_SubscribeReceivesTransitions(t *testing.T) {
	store := NewStore()

	var got []*models.Session
	unsubscribe := store.Subscribe(func(sess *models.Session) {
		got = append(got, sess)
	})
	defer unsubscribe()

	sess := testSession()
	store.SetSession(sess)
	store.SignOut()

	assert.Len(t, got, 2)
	assert.Equal(t, sess, got[0])
	assert.Nil(t, got[1])
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	store := NewStore()

	var notified int
	unsubscribe := store.Subscribe(func(_ *models.Session) {
		notified++
	})

	store.SetSession(testSession())
	unsubscribe()
	store.SignOut()

	assert.Equal(t, 1, notified)

	// повторная отписка безопасна
	unsubscribe()
}

func TestStore_MultipleSubscribers(t *testing.T) {
	store := NewStore()

	var first, second int
	unsub1 := store.Subscribe(func(_ *models.Session) { first++ })
	unsub2 := store.Subscribe(func(_ *models.Session) { second++ })
	defer unsub1()
	defer unsub2()

	store.SetSession(testSession())

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "unauthenticated", StateUnauthenticated.String())
	assert.Equal(t, "authenticating", StateAuthenticating.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
