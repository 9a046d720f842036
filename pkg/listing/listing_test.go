package listing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	image := []byte{0x06, 0x0A, 0x38, 0x00, 0x01, 0xFF}

	tests := []struct {
		columns int
		want    string
	}{
		{0, "v2.0 raw\n06 0A 38 00 01 FF"},
		{-1, "v2.0 raw\n06 0A 38 00 01 FF"},
		{4, "v2.0 raw\n06 0A 38 00\n01 FF"},
		{3, "v2.0 raw\n06 0A 38\n00 01 FF"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Format(image, tc.columns), "columns=%d", tc.columns)
	}

	assert.Equal(t, "v2.0 raw\n", Format(nil, 0))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []byte{1, 2}, 0))
	assert.Equal(t, "v2.0 raw\n01 02", buf.String())
}

func TestParse(t *testing.T) {
	in := "v2.0 raw\n06 0a # load\n3*ff\n\n  38 00 01\n"
	image, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x06, 0x0A, 0xFF, 0xFF, 0xFF, 0x38, 0x00, 0x01}, image)

	image, err = Parse(strings.NewReader(Format([]byte{9, 8, 7}, 2)))
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 8, 7}, image)
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"v3.0 hex words\n00",
		"v2.0 raw\n100",
		"v2.0 raw\nzz",
		"v2.0 raw\nx*01",
		"v2.0 raw\n65537*00",
	} {
		_, err := Parse(strings.NewReader(in))
		assert.ErrorIs(t, err, ErrFormat, "%q", in)
	}
}
