package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFireReachesListenersInOrder(t *testing.T) {
	b := New()
	var got []string
	b.Listen(func(_ context.Context, n Name, p Payload) {
		got = append(got, "first:"+string(n)+":"+p.CafeName)
	}, CafeAdded, CafeRemoved)
	b.Listen(func(_ context.Context, n Name, _ Payload) {
		got = append(got, "second:"+string(n))
	}, CafeAdded)

	b.Fire(context.Background(), CafeAdded, Payload{CafeName: "Joe's"})
	b.Fire(context.Background(), CafeRemoved, Payload{})
	b.Fire(context.Background(), UserRegistered, Payload{})

	assert.Equal(t, []string{
		"first:cafe.added:Joe's",
		"second:cafe.added",
		"first:cafe.removed:",
	}, got)
}

func TestNilBusDropsEvents(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() { b.Fire(context.Background(), CafeAdded, Payload{}) })
}
