package spverr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWrapsUnderlyingError(t *testing.T) {
	underlying := errors.New("boom")
	err := New(IO, underlying)

	assert.Equal(t, IO, err.Kind)
	assert.True(t, errors.Is(err, underlying))
	assert.Contains(t, err.Error(), "boom")
}

func TestNewMaliciousPeerMessage(t *testing.T) {
	err := NewMaliciousPeer(7, SendOverMaxHeadersResults)

	assert.Equal(t, MaliciousPeer, err.Kind)
	assert.Equal(t, uint64(7), err.PeerID)
	assert.Contains(t, err.Error(), "peer 7")
	assert.Contains(t, err.Error(), "send-over-max-headers-results")
}

func TestNewBlockValidationWithDetail(t *testing.T) {
	err := NewBlockValidation(WrongBlockVersion, "version 99 not recognized")

	assert.Equal(t, BlockValidation, err.Kind)
	assert.Contains(t, err.Error(), "wrong-block-version")
	assert.Contains(t, err.Error(), "version 99 not recognized")
}

func TestErrorAsUnwrapsToError(t *testing.T) {
	underlying := fmt.Errorf("disk full")
	wrapped := New(Store, underlying)

	var target *Error
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, Store, target.Kind)
}
