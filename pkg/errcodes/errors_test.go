package errcodes

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNotFound_Is(t *testing.T) {
	t.Parallel()
	err := errors.WithStack(NotFound("Tag"))

	assert.True(t, errors.Is(err, NotFound("Tag")))
	assert.False(t, errors.Is(err, NotFound("Studio")))
	assert.Equal(t, "Tag not found.", err.Error())
}

func TestCodeOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"not found", NotFound("Scene"), CodeNotFound},
		{"wrapped precondition", errors.Wrap(Precondition("scene id is required"), "update"), CodePrecondition},
		{"integrity conflict", IntegrityConflict("Studio"), CodeIntegrityConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CodeOf(tt.err))
		})
	}
}

func TestPrecondition_Formats(t *testing.T) {
	t.Parallel()
	err := Precondition("%s id is required for update", "studio")

	assert.True(t, IsPrecondition(err))
	assert.Equal(t, "studio id is required for update", err.Error())
}
