package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryNamed(t *testing.T) {
	cat, err := ParseCategory("system")
	require.NoError(t, err)
	assert.Equal(t, CategorySystem, cat)
}

func TestParseCategoryNumeric(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Category
	}{
		{"0x10", 16},
		{"0o40", 32},
		{"0b11000", 24},
		{"48", 48},
	} {
		cat, err := ParseCategory(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, cat, tc.in)
	}
}

func TestParseCategoryUnknown(t *testing.T) {
	_, err := ParseCategory("not-a-category")
	require.Error(t, err)
}

func TestParseQualFileNameDefaultsCategory(t *testing.T) {
	q, err := ParseQualFileName("greet")
	require.NoError(t, err)
	assert.Equal(t, DefaultCategory, q.Category)
	assert.Equal(t, "greet", q.Name.String())
}

func TestParseQualFileNameExplicitCategory(t *testing.T) {
	q, err := ParseQualFileName("system:slot_1")
	require.NoError(t, err)
	assert.Equal(t, CategorySystem, q.Category)
	assert.Equal(t, "slot_1", q.Name.String())
}

func TestParseQualFileDefaultsExtension(t *testing.T) {
	q, err := ParseQualFile("user:greet")
	require.NoError(t, err)
	assert.Equal(t, "greet", q.Name.String())
	assert.Equal(t, "bin", q.Type.String())
}

func TestParseQualFileExplicitExtension(t *testing.T) {
	q, err := ParseQualFile("user:greet.txt")
	require.NoError(t, err)
	assert.Equal(t, CategoryUser, q.Category)
	assert.Equal(t, "greet.txt", q.Name.String())
	assert.Equal(t, "txt", q.Type.String())
}

func TestParseQualFileLastDotWins(t *testing.T) {
	q, err := ParseQualFile("user:archive.tar.gz")
	require.NoError(t, err)
	assert.Equal(t, "archive.tar.gz", q.Name.String())
	assert.Equal(t, "gz", q.Type.String())
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "PIT", ChannelPit.String())
	assert.Equal(t, "File Transfer", ChannelFileTransfer.String())
}
