package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Afghanistan", Truncate("Afghanistan", 0))
	assert.Equal(t, "Afghanistan", Truncate("Afghanistan", 11))
	assert.Equal(t, "Afgh…", Truncate("Afghanistan", 5))
	assert.Equal(t, "…", Truncate("Afghanistan", 1))
	assert.Equal(t, "Côte…", Truncate("Côte d'Ivoire", 5))
}
