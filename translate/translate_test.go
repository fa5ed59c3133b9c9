package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("label loop missing", From("label %v missing", "loop"))
	assert.Equal("pc 0x1c halted", From("pc 0x%x %v", 0x1c, "halted"))
	assert.NotEmpty(languages())
}
