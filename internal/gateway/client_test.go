// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/transit-tui/internal/model"
	"github.com/jeranaias/transit-tui/internal/store"
)

func newTestStore(t *testing.T) *store.MessageStore {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "chat.json"))
	_, err := s.Load()
	require.NoError(t, err)
	return s
}

func newAgentStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// After a send resolves, the log grew by exactly two and its tail is the
// response, never the placeholder.
func TestSend_Success(t *testing.T) {
	srv := newAgentStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/agent/prompt", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"No current alerts on the Red line."}`))
	})

	st := newTestStore(t)
	c := New(srv.URL, st)

	var started bool
	var got string
	c.Send(context.Background(), "red line status", Callbacks{
		OnStart:   func() { started = true },
		OnSuccess: func(resp string) { got = resp },
	})

	require.True(t, started)
	require.Equal(t, "No current alerts on the Red line.", got)
	require.Equal(t, 2, st.Len())

	last, ok := st.Last()
	require.True(t, ok)
	require.Equal(t, model.RoleAssistant, last.Role)
	require.Equal(t, "No current alerts on the Red line.", last.Content)
	require.True(t, last.Animate)
	require.False(t, last.IsPlaceholder())
	require.False(t, c.Loading())
}

func TestSend_ServerError(t *testing.T) {
	srv := newAgentStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	st := newTestStore(t)
	c := New(srv.URL, st)

	var gotErr error
	c.Send(context.Background(), "red line status", Callbacks{
		OnError: func(err error) { gotErr = err },
	})

	require.Error(t, gotErr)
	require.Equal(t, 2, st.Len())

	last, _ := st.Last()
	require.Equal(t, ErrorFallback, last.Content)
	require.False(t, last.Animate)
	require.False(t, c.Loading())
}

func TestSend_NetworkError(t *testing.T) {
	st := newTestStore(t)
	// Nothing listens here.
	c := New("http://127.0.0.1:1", st)

	var gotErr error
	c.Send(context.Background(), "any delays?", Callbacks{
		OnError: func(err error) { gotErr = err },
	})

	require.Error(t, gotErr)
	last, _ := st.Last()
	require.Equal(t, ErrorFallback, last.Content)
	require.False(t, c.Loading())
}

// An empty prompt is a silent no-op.
func TestSend_EmptyPrompt(t *testing.T) {
	st := newTestStore(t)
	c := New("http://127.0.0.1:1", st)

	var fired bool
	c.Send(context.Background(), "   ", Callbacks{
		OnStart: func() { fired = true },
		OnError: func(error) { fired = true },
	})

	require.False(t, fired)
	require.Equal(t, 0, st.Len())
	require.False(t, c.Loading())
}

// A late resolution only rewrites its own placeholder, even when a second
// send appended after it.
func TestSend_OverlappingSendsTargetOwnPlaceholder(t *testing.T) {
	release := make(chan struct{})
	calls := 0
	srv := newAgentStub(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			<-release // hold the first request until the second resolves
			w.Write([]byte(`{"response":"first answer"}`))
			return
		}
		w.Write([]byte(`{"response":"second answer"}`))
	})

	st := newTestStore(t)
	c := New(srv.URL, st)

	done := make(chan struct{})
	go func() {
		c.Send(context.Background(), "first", Callbacks{})
		close(done)
	}()

	// Wait until the first pair is appended.
	deadline := time.Now().Add(2 * time.Second)
	for st.Len() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("first send never appended its pair")
		}
		time.Sleep(time.Millisecond)
	}

	c.Send(context.Background(), "second", Callbacks{})
	close(release)
	<-done

	msgs := st.Messages()
	require.Len(t, msgs, 4)
	require.Equal(t, "first answer", msgs[1].Content)
	require.Equal(t, "second answer", msgs[3].Content)
	require.False(t, c.Loading())
}

// A reply landing after its placeholder is gone is logged rather than
// silently dropped.
func TestSend_ReplyWithoutPlaceholderIsLogged(t *testing.T) {
	st := newTestStore(t)
	srv := newAgentStub(t, func(w http.ResponseWriter, r *http.Request) {
		// Wipe the log mid-flight so the rewrite has nothing to target.
		require.NoError(t, st.Clear())
		w.Write([]byte(`{"response":"late answer"}`))
	})

	c := New(srv.URL, st, WithErrorLogging(true))

	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	c.Send(context.Background(), "red line status", Callbacks{})

	require.Contains(t, buf.String(), "record reply failed")
	require.Contains(t, buf.String(), "replaced=false")
	require.Equal(t, 0, st.Len())
}

func TestSuggestedPrompts(t *testing.T) {
	srv := newAgentStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/suggested-prompts", r.URL.Path)
		w.Write([]byte(`["Any delays on the Red line?","Is the Orange line running?"]`))
	})

	c := New(srv.URL, newTestStore(t))
	prompts := c.SuggestedPrompts(context.Background())
	require.Len(t, prompts, 2)
}

func TestSuggestedPrompts_DegradesToEmpty(t *testing.T) {
	c := New("http://127.0.0.1:1", newTestStore(t))
	require.Empty(t, c.SuggestedPrompts(context.Background()))
}

func TestAbout(t *testing.T) {
	srv := newAgentStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/about", r.URL.Path)
		w.Write([]byte(`{"app":"transit","service":"transitd","version":"1.0.0","dependencies":{"mbta":"v3"}}`))
	})

	c := New(srv.URL, newTestStore(t))
	info := c.About(context.Background())
	require.Equal(t, "transitd", info.Service)
	require.Equal(t, "v3", info.Dependencies["mbta"])
}

func TestAbout_DegradesToPlaceholder(t *testing.T) {
	c := New("http://127.0.0.1:1", newTestStore(t))
	info := c.About(context.Background())
	require.Equal(t, "...", info.App)
}
