package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"didsystem/state/did"
)

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--home", dir}, args...))
	err := execute(context.Background(), root)
	return out.String(), err
}

func TestCLILifecycle(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "airdrop")
	require.NoError(t, err)

	out, err := run(t, dir, "create", "johndoe", "--github", "github.com/john", "--twitter", "@johndoe", "--ipfs", "QmTest123")
	require.NoError(t, err)
	var receipt did.Receipt
	require.NoError(t, json.Unmarshal([]byte(out), &receipt))
	require.NotNil(t, receipt.Record)
	assert.Equal(t, "johndoe", receipt.Record.Username)

	_, err = run(t, dir, "create", "again")
	assert.ErrorIs(t, err, did.ErrAlreadyExists)

	// the snapshot written by create is what update runs against
	out, err = run(t, dir, "update", "--github", "", "--twitter", "@john_official")
	require.NoError(t, err)
	receipt = did.Receipt{}
	require.NoError(t, json.Unmarshal([]byte(out), &receipt))
	assert.Equal(t, "", receipt.Record.Github)
	assert.Equal(t, "@john_official", receipt.Record.Twitter)
	assert.Equal(t, "QmTest123", receipt.Record.IpfsHash)

	out, err = run(t, dir, "fetch")
	require.NoError(t, err)
	var r did.Record
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "@john_official", r.Twitter)

	_, err = run(t, dir, "delete")
	require.NoError(t, err)

	_, err = run(t, dir, "fetch")
	assert.ErrorIs(t, err, did.ErrNotFound)
}
