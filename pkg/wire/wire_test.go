package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarintRoundTrip(t *testing.T) {
	for _, length := range []int{0, 1, 0x7F, 0x80, 0x81, 0x100, 0x7FFF} {
		encoded, err := EncodeVarint(length)
		require.NoError(t, err)
		decoded, err := DecodeVarint(bytes.NewReader(encoded))
		require.NoError(t, err)
		assert.Equal(t, length, decoded)
	}
}

func TestVarintBoundary(t *testing.T) {
	b127, err := EncodeVarint(0x7F)
	require.NoError(t, err)
	assert.Len(t, b127, 1)

	b128, err := EncodeVarint(0x80)
	require.NoError(t, err)
	assert.Len(t, b128, 2)
}

func TestVarintOverLimitErrors(t *testing.T) {
	_, err := EncodeVarint(0x8000)
	require.Error(t, err)
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, ErrOverflow, codecErr.Kind)
}

func TestFixedStringRoundTrip(t *testing.T) {
	fs, err := NewFixedString(FileNameWidth, "greet")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, fs.Encode(&buf, "file name"))
	assert.Equal(t, FileNameWidth, buf.Len())

	decoded, err := DecodeFixedString(&buf, FileNameWidth, "file name")
	require.NoError(t, err)
	assert.Equal(t, "greet", decoded.String())
	assert.True(t, fs.Equal(decoded))
}

func TestFixedStringTooLong(t *testing.T) {
	_, err := NewFixedString(FileTypeWidth, "toolong")
	require.Error(t, err)
}

func TestFixedStringEmbeddedNul(t *testing.T) {
	_, err := NewFixedString(FileNameWidth, "a\x00b")
	require.Error(t, err)
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	repr, err := EncodeTimestamp(now)
	require.NoError(t, err)
	back := DecodeTimestamp(repr)
	assert.True(t, now.Equal(back), "expected %v, got %v", now, back)
}

func TestShortVersionOrdering(t *testing.T) {
	a := ShortVersion{1, 0, 0, 0}
	b := ShortVersion{1, 0, 13, 0}
	assert.True(t, a.Less(b))
	assert.True(t, b.AtLeast(a))
}

func TestShortVersionComparesAgainstLongPrefix(t *testing.T) {
	short := ShortVersion{1, 0, 13, 0}
	long := LongVersion{ShortVersion: ShortVersion{1, 0, 13, 0}, BuildMinor: 99}
	assert.Equal(t, 0, short.CompareShort(long))
	assert.True(t, short.AtLeastLong(long))
}

func TestVersionEncodeDecode(t *testing.T) {
	v := LongVersion{ShortVersion: ShortVersion{1, 0, 13, 0}, BuildMinor: 0}
	var buf bytes.Buffer
	require.NoError(t, v.Encode(&buf))
	assert.Equal(t, []byte{1, 0, 13, 0, 0}, buf.Bytes())

	decoded, err := DecodeLongVersion(&buf)
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestProductBrainRoundTrip(t *testing.T) {
	p := Product{Kind: ProductBrain, Brain: 0}
	var buf bytes.Buffer
	require.NoError(t, p.Encode(&buf))
	decoded, err := DecodeProduct(&buf)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
	assert.Equal(t, "brain", decoded.String())
}

func TestProductControllerFlags(t *testing.T) {
	p := Product{Kind: ProductController, Controller: 0x03}
	assert.True(t, p.Controller.Connected())
	assert.True(t, p.Controller.Wireless())
	assert.Contains(t, p.String(), "connected: true")
}

func TestProductUnrecognizedDiscriminant(t *testing.T) {
	_, err := DecodeProduct(bytes.NewReader([]byte{0xFF, 0x00}))
	require.Error(t, err)
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, ErrUnrecognizedDiscriminant, codecErr.Kind)
}
