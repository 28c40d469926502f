// Package stormcodec gathers the codecs that can be used to store records in a storm database.
package stormcodec

import (
	"bytes"
	"strings"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/json"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	ucodec "github.com/ugorji/go/codec"
)

var (
	// CBOR encodes to and decodes from CBOR (Concise Binary Object Representation).
	// http://cbor.io/
	// https://tools.ietf.org/html/rfc7049
	CBOR codec.MarshalUnmarshaler = &ugorjiCodec{name: "cbor", handle: &ucodec.CborHandle{}}

	// Binc encodes to and decodes from Binc.
	// See https://github.com/ugorji/binc
	Binc codec.MarshalUnmarshaler = &ugorjiCodec{name: "binc", handle: &ucodec.BincHandle{}}

	codecs = map[string]codec.MarshalUnmarshaler{
		"json":    json.Codec,
		"msgpack": msgpack.Codec,
		"cbor":    CBOR,
		"binc":    Binc,
	}
)

// ByName returns the codec for the given name.
// An empty name returns the JSON codec.
func ByName(name string) (codec.MarshalUnmarshaler, error) {
	if name == "" {
		return json.Codec, nil
	}

	c, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unknown storm codec: %s", name)
	}
	return c, nil
}

type ugorjiCodec struct {
	name   string
	handle ucodec.Handle
}

func (c *ugorjiCodec) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	enc := ucodec.NewEncoder(&b, c.handle)
	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *ugorjiCodec) Unmarshal(b []byte, v any) error {
	r := bytes.NewReader(b)
	dec := ucodec.NewDecoder(r, c.handle)
	return dec.Decode(v)
}

func (c *ugorjiCodec) Name() string {
	return c.name
}
