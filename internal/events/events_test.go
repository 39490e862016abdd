package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collect struct {
	got []Event
	err error
}

func (c *collect) Publish(ctx context.Context, ev Event) error {
	c.got = append(c.got, ev)
	return c.err
}

func TestMultiPublishesToAll(t *testing.T) {
	boom := errors.New("boom")
	a := &collect{}
	b := &collect{err: boom}
	c := &collect{}

	ev := New("s1", TypeStep, map[string]string{"step": "interview"})
	err := Multi{a, b, c, Nop{}}.Publish(context.Background(), ev)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []Event{ev}, a.got)
	assert.Equal(t, []Event{ev}, c.got)
}

func TestNew(t *testing.T) {
	ev := New("abc", TypeTurn, nil)
	assert.Equal(t, "abc", ev.SessionID)
	assert.Equal(t, TypeTurn, ev.Type)
	assert.NotZero(t, ev.Ts)
	assert.Equal(t, "session.abc", RoutingKey(ev.SessionID))
}
