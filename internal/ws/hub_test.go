package ws

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	got  []PayloadEvent
	fail bool
}

func (r *recorder) WriteJSON(v interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("closed")
	}
	r.got = append(r.got, v.(PayloadEvent))
	return nil
}

func TestNotifyReachesOnlyTheSessionRoom(t *testing.T) {
	h := NewHub()
	a1, a2, b := &recorder{}, &recorder{}, &recorder{}
	h.join("a", a1)
	h.join("a", a2)
	h.join("b", b)

	h.Notify("a", EventGenerationStarted, map[string]any{"paper": "1A"})

	require.Len(t, a1.got, 1)
	require.Len(t, a2.got, 1)
	assert.Empty(t, b.got)
	assert.Equal(t, EventGenerationStarted, a1.got[0].Event)
}

func TestLeaveRemovesEmptyRoom(t *testing.T) {
	h := NewHub()
	r := &recorder{}
	h.join("a", r)
	assert.True(t, h.HasSubscribers("a"))

	h.leave("a", r)
	assert.False(t, h.HasSubscribers("a"))
	h.Notify("a", EventGenerationFailed, nil)
	assert.Empty(t, r.got)
}

func TestNotifyToleratesBrokenSocket(t *testing.T) {
	h := NewHub()
	broken, ok := &recorder{fail: true}, &recorder{}
	h.join("a", broken)
	h.join("a", ok)

	h.Notify("a", EventGenerationCompleted, "x")
	assert.Len(t, ok.got, 1)
}
