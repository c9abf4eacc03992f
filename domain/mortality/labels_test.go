package mortality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zgony/domain/core"
)

func TestDefaultAgeGroups(t *testing.T) {
	labels := DefaultAgeGroups()

	require.Equal(t, 19, labels.Len())
	all := labels.Labels()
	assert.Equal(t, "0 - 4", all[0])
	assert.Equal(t, "85 - 89", all[17])
	assert.Equal(t, "90 i więcej", all[18])
	assert.True(t, labels.Contains("45 - 49"))
	assert.False(t, labels.Contains("45-49"))
}

func TestNewLabelSet_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		labels []string
	}{
		{"empty", nil},
		{"blank label", []string{"0 - 4", "  "}},
		{"duplicate", []string{"0 - 4", "5 - 9", "0 - 4"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLabelSet(tc.labels)
			assert.ErrorIs(t, err, core.ErrInvalidLabelSet)
		})
	}
}

func TestNewLabelSet_KeepsOrderAndCopies(t *testing.T) {
	src := []string{"b", "a", "c"}
	set, err := NewLabelSet(src)
	require.NoError(t, err)

	src[0] = "z"
	out := set.Labels()
	out[1] = "y"

	assert.Equal(t, []string{"b", "a", "c"}, set.Labels())
}
