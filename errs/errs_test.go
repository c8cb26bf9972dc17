package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatsLineWhenPresent(t *testing.T) {
	e := NewAt(ParseError, 42, "bad token %q", "xyz")
	assert.Equal(t, `parse error: line 42: bad token "xyz"`, e.Error())
}

func TestErrorOmitsLineWhenAbsent(t *testing.T) {
	e := New(WrongDevice, "typesetter %q is not pdf", "ps")
	assert.Equal(t, `wrong device: typesetter "ps" is not pdf`, e.Error())
}

func TestKindFatal(t *testing.T) {
	assert.True(t, WrongDevice.Fatal())
	assert.True(t, FontNotFound.Fatal())
	assert.True(t, Io.Fatal())
	assert.True(t, StateViolation.Fatal())
	assert.False(t, ParseError.Fatal())
}

func TestWrapUnwrapsToCause(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(Io, cause, "writing object %d", 3)
	assert.True(t, errors.Is(e, cause))
	assert.Contains(t, e.Error(), "disk full")
}
