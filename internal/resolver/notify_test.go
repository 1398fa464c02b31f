package resolver

import (
	"testing"

	"github.com/huangsam/callerid/schema"
	"github.com/stretchr/testify/assert"
)

func TestNotifierKeepsNewest(t *testing.T) {
	n := newNotifier()
	ch, cancel := n.subscribe(2)
	defer cancel()

	n.publish(schema.ManagerStatus{State: schema.EnablingState})
	n.publish(schema.ManagerStatus{State: schema.EnabledState})
	n.publish(schema.ManagerStatus{State: schema.RefreshingState})

	assert.Len(t, ch, 2)
	assert.Equal(t, schema.EnabledState, (<-ch).State)
	assert.Equal(t, schema.RefreshingState, (<-ch).State)
}

func TestNotifierCancel(t *testing.T) {
	n := newNotifier()
	ch, cancel := n.subscribe(0)

	n.publish(schema.ManagerStatus{State: schema.EnabledState})
	cancel()
	cancel()

	st, ok := <-ch
	assert.True(t, ok)
	assert.Equal(t, schema.EnabledState, st.State)
	_, ok = <-ch
	assert.False(t, ok)

	// Publishing after cancel must not panic on the closed channel.
	assert.NotPanics(t, func() { n.publish(schema.ManagerStatus{State: schema.DisabledState}) })
	assert.Empty(t, n.subs)
}
