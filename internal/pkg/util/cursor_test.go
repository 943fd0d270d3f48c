package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursorRoundTrip(t *testing.T) {
	in := []interface{}{float64(1717000000000), "post_123"}

	cursor := EncodeCursor(in)
	assert.NotEmpty(t, cursor)

	out, err := DecodeCursor(cursor)
	assert.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCursorEmpty(t *testing.T) {
	assert.Equal(t, "", EncodeCursor(nil))

	out, err := DecodeCursor("")
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestDecodeCursorInvalid(t *testing.T) {
	_, err := DecodeCursor("not base64!!!")
	assert.Error(t, err)
}
