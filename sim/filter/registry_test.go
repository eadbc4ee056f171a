package filter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryBuildUnknownNameErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Build("missing", nil, func() uint64 { return 1 })
	require.Error(t, err)
}

func TestRegistryBuildInvokesRegisteredFactory(t *testing.T) {
	r := NewRegistry()
	r.Register("height", func(properties map[string]string, uidFactory func() uint64) (Executor, error) {
		return New(properties, nil, nil, HeightReduction, "", uidFactory)
	})

	exec, err := r.Build("height", map[string]string{workloadNameKey: "reviews-v1"}, func() uint64 { return 1 })
	require.NoError(t, err)
	require.IsType(t, &Filter{}, exec)
}
