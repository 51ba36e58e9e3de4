package sl

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("db error"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.KindString, attr.Value.Kind())
	assert.Equal(t, "db error", attr.Value.String())
}

func TestEvent(t *testing.T) {
	attr := Event("checkout.session.completed")

	assert.Equal(t, "event", attr.Key)
	assert.Equal(t, "checkout.session.completed", attr.Value.String())
}
