package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*Locker, redismock.ClientMock) {
	t.Helper()
	client, mock := redismock.NewClientMock()
	l := NewLocker(client, 5*time.Second)
	l.Retries = 0
	l.NewToken = func() string { return "tok-1" }
	return l, mock
}

func TestAcquireSortsKeysAndReleases(t *testing.T) {
	l, mock := newTestLocker(t)

	mock.ExpectSetNX("LOCK:BOOKING:b-1", "tok-1", 5*time.Second).SetVal(true)
	mock.ExpectSetNX("LOCK:WALLET:u-1", "tok-1", 5*time.Second).SetVal(true)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"LOCK:WALLET:u-1"}, "tok-1").SetVal(int64(1))
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"LOCK:BOOKING:b-1"}, "tok-1").SetVal(int64(1))

	release, err := l.Acquire(context.Background(), WalletLockKey("u-1"), BookingLockKey("b-1"), BookingLockKey("b-1"))
	require.NoError(t, err)
	release()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireFailsWhenHeld(t *testing.T) {
	l, mock := newTestLocker(t)

	mock.ExpectSetNX("LOCK:BOOKING:b-1", "tok-1", 5*time.Second).SetVal(true)
	mock.ExpectSetNX("LOCK:WALLET:u-1", "tok-1", 5*time.Second).SetVal(false)
	mock.ExpectEvalSha(releaseScript.Hash(), []string{"LOCK:BOOKING:b-1"}, "tok-1").SetVal(int64(1))

	release, err := l.Acquire(context.Background(), BookingLockKey("b-1"), WalletLockKey("u-1"))
	require.Nil(t, release)
	require.True(t, errors.Is(err, ErrLockHeld))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquirePropagatesRedisError(t *testing.T) {
	l, mock := newTestLocker(t)

	mock.ExpectSetNX("LOCK:WALLET:u-9", "tok-1", 5*time.Second).SetErr(errors.New("connection reset"))

	_, err := l.Acquire(context.Background(), WalletLockKey("u-9"))
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrLockHeld))
	require.NoError(t, mock.ExpectationsWereMet())
}
