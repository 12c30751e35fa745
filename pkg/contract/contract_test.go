package contract

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Holds(t *testing.T) {
	assert.NoError(t, Check(true, "never shown %d", 1))
}

func TestCheck_Fails(t *testing.T) {
	err := Check(false, "db.url.%d is null", 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrViolation), "error should wrap ErrViolation")
	assert.Equal(t, "db.url.2 is null: contract violation", err.Error())
}

func TestViolation_FormatsMessage(t *testing.T) {
	err := Violation("db.url has %d entries but db.num is %d", 1, 2)
	assert.True(t, errors.Is(err, ErrViolation))
	assert.Equal(t, "db.url has 1 entries but db.num is 2: contract violation", err.Error())
}
