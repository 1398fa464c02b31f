package directory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStaticGate(t *testing.T) {
	tests := []struct {
		name    string
		status  schema.AuthorizationStatus
		answer  schema.AuthorizationStatus
		granted bool
		after   schema.AuthorizationStatus
	}{
		{"undetermined resolves to answer", schema.NotDetermined, schema.Authorized, true, schema.Authorized},
		{"undetermined denied", schema.NotDetermined, schema.Denied, false, schema.Denied},
		{"defaults", "", "", true, schema.Authorized},
		{"restricted never changes", schema.Restricted, schema.Authorized, false, schema.Restricted},
		{"limited is granted", schema.Limited, schema.Denied, true, schema.Limited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewStaticGate(tt.status, tt.answer)
			assert.Equal(t, tt.granted, g.RequestAccess(context.Background()))
			assert.Equal(t, tt.after, g.CurrentStatus())
		})
	}
}

func newTestPromptGate(store contract.KVStore, input io.Reader, interactive bool) (*PromptGate, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &PromptGate{
		store:       store,
		in:          input,
		out:         out,
		interactive: func() bool { return interactive },
		now:         func() time.Time { return time.Unix(1700000000, 0) },
	}, out
}

func notFound(store *contract.MockKVStore) {
	store.On("Get", AuthorizationKey).Return(nil, 0, int64(0), contract.ErrNotFound)
}

func TestPromptGate_StoredDecision(t *testing.T) {
	store := &contract.MockKVStore{}
	store.On("Get", AuthorizationKey).Return([]byte("authorized"), 1, int64(1), nil)
	g, out := newTestPromptGate(store, strings.NewReader(""), false)

	assert.Equal(t, schema.Authorized, g.CurrentStatus())
	assert.True(t, g.RequestAccess(context.Background()))
	assert.Empty(t, out.String())
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPromptGate_Answers(t *testing.T) {
	tests := []struct {
		input   string
		stored  string
		granted bool
	}{
		{"y\n", "authorized", true},
		{"YES\n", "authorized", true},
		{"n\n", "denied", false},
		{"\n", "denied", false},
		{"", "denied", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			store := &contract.MockKVStore{}
			notFound(store)
			store.On("Set", AuthorizationKey, []byte(tt.stored), 1, int64(1700000000)).Return(nil).Once()
			g, out := newTestPromptGate(store, strings.NewReader(tt.input), true)

			assert.Equal(t, tt.granted, g.RequestAccess(context.Background()))
			assert.Contains(t, out.String(), "Allow callerid to read your contacts? [y/N]")
			store.AssertExpectations(t)
		})
	}
}

func TestPromptGate_NonInteractive(t *testing.T) {
	store := &contract.MockKVStore{}
	notFound(store)
	g, out := newTestPromptGate(store, strings.NewReader("y\n"), false)

	assert.Equal(t, schema.NotDetermined, g.CurrentStatus())
	assert.False(t, g.RequestAccess(context.Background()))
	assert.Equal(t, schema.Restricted, g.CurrentStatus())
	assert.Empty(t, out.String())
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPromptGate_Failures(t *testing.T) {
	t.Run("unreadable store", func(t *testing.T) {
		store := &contract.MockKVStore{}
		store.On("Get", AuthorizationKey).Return(nil, 0, int64(0), errors.New("db down"))
		g, _ := newTestPromptGate(store, strings.NewReader("y\n"), true)

		assert.Equal(t, schema.Denied, g.CurrentStatus())
		assert.False(t, g.RequestAccess(context.Background()))
	})

	t.Run("garbage value", func(t *testing.T) {
		store := &contract.MockKVStore{}
		store.On("Get", AuthorizationKey).Return([]byte("maybe"), 1, int64(1), nil)
		g, _ := newTestPromptGate(store, strings.NewReader(""), true)
		assert.Equal(t, schema.Denied, g.CurrentStatus())
	})

	t.Run("unwritable store", func(t *testing.T) {
		store := &contract.MockKVStore{}
		notFound(store)
		store.On("Set", AuthorizationKey, []byte("authorized"), 1, int64(1700000000)).Return(errors.New("read-only"))
		g, _ := newTestPromptGate(store, strings.NewReader("y\n"), true)

		assert.False(t, g.RequestAccess(context.Background()))
		assert.Equal(t, schema.Denied, g.CurrentStatus())
	})

	t.Run("canceled while waiting", func(t *testing.T) {
		store := &contract.MockKVStore{}
		notFound(store)
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()
		g, _ := newTestPromptGate(store, pr, true)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.False(t, g.RequestAccess(ctx))
		assert.Equal(t, schema.NotDetermined, g.CurrentStatus())
		store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("answer after a canceled prompt", func(t *testing.T) {
		store := &contract.MockKVStore{}
		notFound(store)
		store.On("Set", AuthorizationKey, []byte("authorized"), 1, int64(1700000000)).Return(nil).Once()
		pr, pw := io.Pipe()
		defer func() { _ = pw.Close() }()
		g, _ := newTestPromptGate(store, pr, true)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.False(t, g.RequestAccess(ctx))

		go func() { _, _ = io.WriteString(pw, "y\n") }()
		assert.True(t, g.RequestAccess(context.Background()))
		store.AssertExpectations(t)
	})
}

func TestPromptGate_Reset(t *testing.T) {
	store := &contract.MockKVStore{}
	notFound(store)
	store.On("Delete", AuthorizationKey).Return(nil).Once()
	g, _ := newTestPromptGate(store, strings.NewReader(""), false)

	g.RequestAccess(context.Background())
	require.Equal(t, schema.Restricted, g.CurrentStatus())

	require.NoError(t, g.Reset())
	assert.Equal(t, schema.NotDetermined, g.CurrentStatus())
	store.AssertExpectations(t)
}
