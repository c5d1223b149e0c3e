package conductor

import (
	"context"
	"testing"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/sasha-s/go-deadlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"didsystem/engine/library"
	"didsystem/state/did"
	"didsystem/state/replay"
)

type fixture struct {
	program   *did.Program
	replay    *replay.Ledger
	conductor *Conductor
	terminate chan struct{}
	wg        *deadlock.WaitGroup
	sk        string
	accts     did.Accounts
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		program:   did.NewProgram(library.Sha256Sum("conductor_test"), did.DefaultRent()),
		replay:    replay.New(),
		terminate: make(chan struct{}),
		wg:        &deadlock.WaitGroup{},
		sk:        nostr.GeneratePrivateKey(),
	}
	pk, err := nostr.GetPublicKey(f.sk)
	require.NoError(t, err)
	_, err = f.program.Airdrop(pk, 1000000000)
	require.NoError(t, err)
	address, err := f.program.AddressFor(pk)
	require.NoError(t, err)
	f.accts = did.Accounts{Record: address, Owner: pk, Signer: pk}
	f.conductor = New(f.program, f.replay, f.terminate, f.wg)
	f.conductor.Start()
	t.Cleanup(f.stop)
	return f
}

func (f *fixture) stop() {
	select {
	case <-f.terminate:
	default:
		close(f.terminate)
	}
	f.wg.Wait()
}

func (f *fixture) tx(t *testing.T, kind int, content any) nostr.Event {
	t.Helper()
	e, err := did.NewTransaction(f.sk, kind, f.accts, content, nostr.Timestamp(time.Now().Unix()))
	require.NoError(t, err)
	return e
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	create := f.tx(t, did.KindCreate, did.Kind640800{Username: "johndoe"})
	receipt, err := f.conductor.Submit(ctx, create)
	require.NoError(t, err)
	assert.Equal(t, "johndoe", receipt.Record.Username)
	assert.True(t, f.replay.Seen(create.ID))

	t.Run("replayed transaction is rejected", func(t *testing.T) {
		_, err := f.conductor.Submit(ctx, create)
		require.Error(t, err)
		assert.ErrorIs(t, err, did.ErrInvalidTransaction)
	})

	t.Run("failed transaction is not marked", func(t *testing.T) {
		again := f.tx(t, did.KindCreate, did.Kind640800{Username: "johndoe"})
		_, err := f.conductor.Submit(ctx, again)
		assert.ErrorIs(t, err, did.ErrAlreadyExists)
		assert.False(t, f.replay.Seen(again.ID))
	})

	t.Run("history keeps applied order", func(t *testing.T) {
		del := f.tx(t, did.KindDelete, nil)
		_, err := f.conductor.Submit(ctx, del)
		require.NoError(t, err)
		h := f.conductor.History()
		require.Len(t, h, 2)
		assert.Equal(t, create.ID, h[0].ID)
		assert.Equal(t, del.ID, h[1].ID)
	})
}

func TestConcurrentCreatesOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	const n = 8
	errs := make(chan error, n)
	var wg deadlock.WaitGroup
	for i := 0; i < n; i++ {
		e := f.tx(t, did.KindCreate, did.Kind640800{Username: "racer"})
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.conductor.Submit(context.Background(), e)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	var ok, exists int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, did.ErrAlreadyExists):
			exists++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, exists)
	assert.Equal(t, did.DefaultRent().MinimumBalance(did.Space), f.program.Balance(f.accts.Record))
}

func TestSubmitAfterStop(t *testing.T) {
	f := newFixture(t)
	f.stop()
	_, err := f.conductor.Submit(context.Background(), f.tx(t, did.KindDelete, nil))
	assert.Error(t, err)
}

func TestSubmitHonoursContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.conductor.Submit(ctx, f.tx(t, did.KindDelete, nil))
	// either the loop took it and reported NotFound, or the context won the race
	assert.Error(t, err)
}
