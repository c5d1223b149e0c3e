package relays

import (
	"context"
	"testing"

	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
)

func TestPublishWithoutRelays(t *testing.T) {
	assert.Error(t, Publish(context.Background(), nil, nostr.Event{}))
}

func TestPublishUnreachableRelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Publish(ctx, []string{"ws://127.0.0.1:1", "ws://127.0.0.1:2"}, nostr.Event{ID: "x"})
	assert.Error(t, err)
}
