package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeed_PublishAndUnsubscribe(t *testing.T) {
	feed := NewFeed[int]()

	var a, b []int
	unsubA := feed.Subscribe(func(v int) { a = append(a, v) })
	feed.Subscribe(func(v int) { b = append(b, v) })
	assert.Equal(t, 2, feed.Len())

	feed.Publish(1)
	unsubA()
	unsubA()
	feed.Publish(2)

	assert.Equal(t, []int{1}, a)
	assert.Equal(t, []int{1, 2}, b)
	assert.Equal(t, 1, feed.Len())
}

func TestFeed_HandlerMayUnsubscribeDuringPublish(t *testing.T) {
	feed := NewFeed[string]()

	calls := 0
	var unsub func()
	unsub = feed.Subscribe(func(string) {
		calls++
		unsub()
	})

	feed.Publish("x")
	feed.Publish("y")

	assert.Equal(t, 1, calls)
	assert.Zero(t, feed.Len())
}
