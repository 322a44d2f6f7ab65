package io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerial_Send(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	sc := &Serial{Output: out}

	for _, c := range []byte("Hi!") {
		assert.NoError(sc.Send(c))
	}

	assert.Equal("Hi!", out.String())
	assert.Equal(3, sc.Written)

	sc.Rewind()
	assert.Equal(0, sc.Written)
}

func TestSerial_Latin1(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	sc := &Serial{Output: out}

	assert.NoError(sc.Send(0xe9))
	assert.NoError(sc.Send(0xff))
	assert.NoError(sc.Send('!'))

	assert.Equal("\u00e9\u00ff!", out.String())
	assert.Equal([]byte{0xc3, 0xa9, 0xc3, 0xbf, '!'}, out.Bytes())
	assert.Equal(3, sc.Written)
}

func TestSerial_Discard(t *testing.T) {
	assert := assert.New(t)

	sc := &Serial{}
	assert.NoError(sc.Send('A'))
	assert.Equal(1, sc.Written)
}
