package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `100\%`, EscapeLike("100%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, EscapeLike(`c:\dir`))
	assert.Equal(t, `%fanart#ABC\_1`, SuffixPattern("fanart#ABC_1"))
	assert.Equal(t, `%Budget%`, ContainsPattern("Budget"))
	assert.Equal(t, `%%`, ContainsPattern(""))
}
