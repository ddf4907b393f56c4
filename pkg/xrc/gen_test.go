package xrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenKey(t *testing.T) {
	key, err := GenKey(32)
	assert.NoError(t, err)
	assert.Len(t, key, 32)

	other, err := GenKey(32)
	assert.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestGenKey_Neg(t *testing.T) {
	_, err := GenKey(0)
	assert.ErrorIs(t, err, ErrKeyTooShort)
	_, err = GenKey(DefaultMinKeyLen - 1)
	assert.Error(t, err)
}
