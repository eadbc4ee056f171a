package height

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anirudhsk/meshtrace/sim/filter"
	"github.com/anirudhsk/meshtrace/sim/wire"
)

func TestRegisterInstallsUnderName(t *testing.T) {
	r := filter.NewRegistry()
	Register(r)

	exec, err := r.Build(Name, map[string]string{
		"node.metadata.WORKLOAD_NAME": "productpage-v1",
		RootServiceProperty:           "productpage-v1",
	}, func() uint64 { return 1 })
	require.NoError(t, err)
	require.NotNil(t, exec)
}

func TestNewWithEnvoyPropertiesRequiresWorkloadName(t *testing.T) {
	_, err := NewWithEnvoyProperties(map[string]string{}, func() uint64 { return 1 })
	require.ErrorIs(t, err, filter.ErrMissingWorkloadName)
}

func TestTargetGraphIsThreeNodeChain(t *testing.T) {
	g := TargetGraph()
	require.Equal(t, 3, g.Len())
	root, ok := g.Root()
	require.True(t, ok)
	n, _ := g.Node(root)
	require.Equal(t, "a", n.Label)
}

func TestEndToEndLinearChainProducesStorageMessage(t *testing.T) {
	pp, err := NewWithEnvoyProperties(map[string]string{
		"node.metadata.WORKLOAD_NAME": "productpage-v1",
		RootServiceProperty:           "productpage-v1",
	}, func() uint64 { return 100 })
	require.NoError(t, err)
	reviews, err := NewWithEnvoyProperties(map[string]string{
		"node.metadata.WORKLOAD_NAME": "reviews-v1",
	}, func() uint64 { return 200 })
	require.NoError(t, err)
	ratings, err := NewWithEnvoyProperties(map[string]string{
		"node.metadata.WORKLOAD_NAME": "ratings-v1",
	}, func() uint64 { return 300 })
	require.NoError(t, err)

	uid := uint64(1)

	// request leg: productpage -> reviews -> ratings
	msg := wire.NewMessage("req", uid)
	msg.SetDirection(wire.DirectionRequest)

	msg.SetLocation(wire.LocationIngress)
	out := pp.Execute(msg)
	msg = out[0]
	msg.SetLocation(wire.LocationEgress)
	out = pp.Execute(msg)
	msg = out[0]

	msg.SetLocation(wire.LocationIngress)
	out = reviews.Execute(msg)
	msg = out[0]
	msg.SetLocation(wire.LocationEgress)
	out = reviews.Execute(msg)
	msg = out[0]

	msg.SetLocation(wire.LocationIngress)
	out = ratings.Execute(msg)
	msg = out[0]

	// response leg: ratings -> reviews -> productpage
	msg.SetDirection(wire.DirectionResponse)
	msg.SetLocation(wire.LocationEgress)
	out = ratings.Execute(msg)
	msg = out[0]

	msg.SetLocation(wire.LocationIngress)
	out = reviews.Execute(msg)
	msg = out[0]
	msg.SetLocation(wire.LocationEgress)
	out = reviews.Execute(msg)
	msg = out[0]

	msg.SetLocation(wire.LocationIngress)
	out = pp.Execute(msg)
	msg = out[0]
	msg.SetLocation(wire.LocationEgress)
	out = pp.Execute(msg)

	require.Len(t, out, 2, "root service should emit the original plus a storage message")
	storage := out[1]
	dest, _ := storage.Dest()
	require.Equal(t, wire.DestStorage, dest)
	require.Equal(t, "2", storage.Payload)
}
