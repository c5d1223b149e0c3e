package actors

import (
	"io"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *viper.Viper {
	t.Helper()
	conf := viper.New()
	conf.Set("rootDir", t.TempDir()+"/")
	InitConfig(conf)
	SetConfig(conf)
	return conf
}

func TestInitConfigDefaults(t *testing.T) {
	conf := testConfig(t)
	assert.Equal(t, uint64(3480), conf.GetUint64("lamportsPerByteYear"))
	assert.Equal(t, uint64(2), conf.GetUint64("exemptionThreshold"))
	assert.Equal(t, "data/", conf.GetString("flatFileDir"))
	assert.FileExists(t, conf.GetString("rootDir")+"config.yaml")
}

func TestFlatFileRoundTrip(t *testing.T) {
	testConfig(t)

	_, ok, err := Open("did", "current")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Write("did", "current", []byte(`{"a":1}`)))
	require.NoError(t, Write("did", "current", []byte(`{"a":2}`)))

	f, ok, err := Open("did", "current")
	require.NoError(t, err)
	require.True(t, ok)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(b))
}

func TestWalletFromSeedWords(t *testing.T) {
	words := "leader monkey parrot ring guide accident before fence cannon height naive bean"
	w1, err := WalletFromSeedWords(words)
	require.NoError(t, err)
	w2, err := WalletFromSeedWords(words)
	require.NoError(t, err)
	assert.Equal(t, w1.Account, w2.Account)
	assert.Len(t, w1.Account, 64)

	pk, err := PubKey(w1.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, w1.Account, pk)
}
