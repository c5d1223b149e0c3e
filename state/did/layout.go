package did

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"didsystem/engine/library"
)

// Space is the allocated size of a record account:
// discriminator + owner + username + github + twitter + ipfs_hash + created_at + updated_at + bump
const Space = 8 + 32 + (4 + MaxUsernameLength) + 3*(4+MaxFieldLength) + 8 + 8 + 1

var discriminator = accountDiscriminator("DidAccount")

func accountDiscriminator(name string) [8]byte {
	var d [8]byte
	h := sha256.Sum256([]byte("account:" + name))
	copy(d[:], h[:8])
	return d
}

// Encode serialises r into exactly Space bytes, zero padded. Address is not part of the
// layout, it is the key the data is stored under.
func Encode(r Record) ([]byte, error) {
	owner, err := library.DecodeAccount(r.Owner)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	buf := bytes.NewBuffer(make([]byte, 0, Space))
	buf.Write(discriminator[:])
	buf.Write(owner[:])
	for _, f := range []struct {
		value string
		max   int
	}{
		{r.Username, MaxUsernameLength},
		{r.Github, MaxFieldLength},
		{r.Twitter, MaxFieldLength},
		{r.IpfsHash, MaxFieldLength},
	} {
		if len(f.value) > f.max {
			return nil, fmt.Errorf("string of %d bytes does not fit in %d", len(f.value), f.max)
		}
		binary.Write(buf, binary.LittleEndian, uint32(len(f.value)))
		buf.WriteString(f.value)
	}
	binary.Write(buf, binary.LittleEndian, r.CreatedAt)
	binary.Write(buf, binary.LittleEndian, r.UpdatedAt)
	buf.WriteByte(r.Bump)
	data := make([]byte, Space)
	copy(data, buf.Bytes())
	return data, nil
}

// Decode is the inverse of Encode.
func Decode(address library.Account, data []byte) (Record, error) {
	r := Record{Address: address}
	if len(data) < 8 || !bytes.Equal(data[:8], discriminator[:]) {
		return r, fmt.Errorf("account %s does not hold a DID record", address)
	}
	rd := bytes.NewReader(data[8:])
	var owner [32]byte
	if _, err := io.ReadFull(rd, owner[:]); err != nil {
		return r, fmt.Errorf("owner: %w", err)
	}
	r.Owner = library.EncodeAccount(owner)
	for _, f := range []struct {
		dst *string
		max int
	}{
		{&r.Username, MaxUsernameLength},
		{&r.Github, MaxFieldLength},
		{&r.Twitter, MaxFieldLength},
		{&r.IpfsHash, MaxFieldLength},
	} {
		var n uint32
		if err := binary.Read(rd, binary.LittleEndian, &n); err != nil {
			return r, err
		}
		if int(n) > f.max || int(n) > rd.Len() {
			return r, fmt.Errorf("string length %d is out of bounds", n)
		}
		s := make([]byte, n)
		if _, err := io.ReadFull(rd, s); err != nil {
			return r, err
		}
		*f.dst = string(s)
	}
	if err := binary.Read(rd, binary.LittleEndian, &r.CreatedAt); err != nil {
		return r, err
	}
	if err := binary.Read(rd, binary.LittleEndian, &r.UpdatedAt); err != nil {
		return r, err
	}
	bump, err := rd.ReadByte()
	if err != nil {
		return r, err
	}
	r.Bump = bump
	return r, nil
}
