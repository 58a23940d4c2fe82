package helpers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettle(t *testing.T) {
	permanent := errors.New("permanent")

	ack, requeue := Settle(nil, permanent)
	assert.True(t, ack)
	assert.False(t, requeue)

	ack, requeue = Settle(errors.New("mailgun 503"), permanent)
	assert.False(t, ack)
	assert.True(t, requeue)

	ack, requeue = Settle(fmt.Errorf("%w: bad json", permanent), permanent)
	assert.False(t, ack)
	assert.False(t, requeue)

	_, requeue = Settle(errors.New("x"), nil)
	assert.True(t, requeue)
}
