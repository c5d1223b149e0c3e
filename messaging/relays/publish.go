package relays

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"didsystem/engine/library"
)

// Publish sends a signed transaction to every relay. A relay that cannot be reached does not
// stop the others; all failures are returned together.
func Publish(ctx context.Context, urls []string, event nostr.Event) error {
	if len(urls) == 0 {
		return fmt.Errorf("no relays configured")
	}
	results := make(chan error, len(urls))
	for _, url := range urls {
		go func(url string) {
			results <- publishOne(ctx, url, event)
		}(url)
	}
	var errs []error
	for range urls {
		if err := <-results; err != nil {
			library.LogCLI(err.Error(), 2)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func publishOne(ctx context.Context, url string, event nostr.Event) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	relay, err := nostr.RelayConnect(ctx, url)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", url, err)
	}
	defer relay.Close()
	if _, err := relay.Publish(ctx, event); err != nil {
		return fmt.Errorf("publishing %s to %s: %w", event.ID, url, err)
	}
	library.LogCLI(fmt.Sprintf("Published %s to %s", event.ID, url), 4)
	return nil
}
