package did

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"didsystem/engine/library"
)

func TestLayout(t *testing.T) {
	r := Record{
		Address:   library.Sha256Sum("address"),
		Owner:     library.Sha256Sum("owner"),
		Username:  strings.Repeat("u", MaxUsernameLength),
		Github:    strings.Repeat("g", MaxFieldLength),
		Twitter:   "",
		IpfsHash:  "QmTest123",
		CreatedAt: 1700000000,
		UpdatedAt: 1700000042,
		Bump:      254,
	}

	t.Run("space matches the allocated account size", func(t *testing.T) {
		assert.Equal(t, 297, Space)
		data, err := Encode(r)
		require.NoError(t, err)
		assert.Len(t, data, Space)
	})

	t.Run("round trips exactly", func(t *testing.T) {
		data, err := Encode(r)
		require.NoError(t, err)
		got, err := Decode(r.Address, data)
		require.NoError(t, err)
		assert.Equal(t, r, got)
	})

	t.Run("field order on disk", func(t *testing.T) {
		data, err := Encode(Record{Owner: r.Owner, Username: "ab", CreatedAt: 1, UpdatedAt: 2, Bump: 7})
		require.NoError(t, err)
		assert.Equal(t, discriminator[:], data[:8])
		assert.Equal(t, []byte{2, 0, 0, 0, 'a', 'b'}, data[40:46])
		// three empty strings, then the timestamps
		assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, data[58:66])
		assert.Equal(t, []byte{2, 0, 0, 0, 0, 0, 0, 0}, data[66:74])
		assert.Equal(t, byte(7), data[74])
	})

	t.Run("rejects foreign data", func(t *testing.T) {
		data, err := Encode(r)
		require.NoError(t, err)
		data[0] ^= 0xff
		_, err = Decode(r.Address, data)
		assert.Error(t, err)

		_, err = Decode(r.Address, nil)
		assert.Error(t, err)
	})

	t.Run("rejects oversized strings", func(t *testing.T) {
		bad := r
		bad.Username = strings.Repeat("u", MaxUsernameLength+1)
		_, err := Encode(bad)
		assert.Error(t, err)
	})

	t.Run("rejects corrupt length prefix", func(t *testing.T) {
		data, err := Encode(r)
		require.NoError(t, err)
		data[40] = 0xff
		_, err = Decode(r.Address, data)
		assert.Error(t, err)
	})
}

func TestValidation(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		cases := []struct {
			name  string
			args  CreateArgs
			field string
		}{
			{"minimal", CreateArgs{Username: "a"}, ""},
			{"longest username", CreateArgs{Username: strings.Repeat("a", 32)}, ""},
			{"empty username", CreateArgs{}, "username"},
			{"username too long", CreateArgs{Username: strings.Repeat("a", 33)}, "username"},
			{"longest optionals", CreateArgs{Username: "a", Github: strings.Repeat("g", 64), Twitter: strings.Repeat("t", 64), IpfsHash: strings.Repeat("q", 64)}, ""},
			{"github too long", CreateArgs{Username: "a", Github: strings.Repeat("g", 65)}, "github"},
			{"twitter too long", CreateArgs{Username: "a", Twitter: strings.Repeat("t", 65)}, "twitter"},
			{"ipfs hash too long", CreateArgs{Username: "a", IpfsHash: strings.Repeat("q", 65)}, "ipfs_hash"},
			{"bytes not runes", CreateArgs{Username: strings.Repeat("é", 17)}, "username"},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				err := ValidateCreate(c.args)
				if c.field == "" {
					assert.Nil(t, err)
					return
				}
				require.NotNil(t, err)
				assert.Equal(t, CodeValidationFailed, err.Code)
				assert.Equal(t, c.field, err.Field)
			})
		}
	})

	t.Run("update ignores unset fields", func(t *testing.T) {
		assert.Nil(t, ValidateUpdate(UpdateArgs{}))
		assert.Nil(t, ValidateUpdate(UpdateArgs{Github: Set("")}))
		err := ValidateUpdate(UpdateArgs{Twitter: Set(strings.Repeat("t", 65))})
		require.NotNil(t, err)
		assert.Equal(t, "twitter", err.Field)
	})
}

func TestField(t *testing.T) {
	v, ok := Unset().Get()
	assert.False(t, ok)
	assert.Equal(t, "", v)
	assert.Nil(t, Unset().Ptr())

	v, ok = Set("").Get()
	assert.True(t, ok)
	assert.Equal(t, "", v)
	require.NotNil(t, Set("").Ptr())

	assert.Equal(t, "keep", Unset().apply("keep"))
	assert.Equal(t, "", Set("").apply("keep"))

	empty := ""
	_, ok = FieldFromPtr(&empty).Get()
	assert.True(t, ok)
	_, ok = FieldFromPtr(nil).Get()
	assert.False(t, ok)
}
