package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anirudhsk/meshtrace/sim"
)

func TestWhoamiIsReservedStorageID(t *testing.T) {
	s := New()
	require.Equal(t, "storage", s.Whoami())
	require.Equal(t, sim.DestStorage, s.Whoami())
}

func TestRecvAccumulatesInArrivalOrder(t *testing.T) {
	s := New()
	s.Recv(sim.NewMessage("first", 1), 0, "productpage-v1")
	s.Recv(sim.NewMessage("second", 2), 1, "productpage-v1")

	require.Equal(t, 2, s.Len())
	records := s.Records()
	require.Equal(t, "first", records[0].Payload)
	require.Equal(t, uint64(1), records[0].UID)
	require.Equal(t, "productpage-v1", records[0].Sender)
	require.Equal(t, int64(0), records[0].Tick)
	require.Equal(t, "second", records[1].Payload)
}

func TestTickNeverProducesOutput(t *testing.T) {
	s := New()
	s.Recv(sim.NewMessage("p", 1), 0, "node-a")
	require.Nil(t, s.Tick(1))
}

func TestRecordsReturnsASnapshotNotALiveView(t *testing.T) {
	s := New()
	s.Recv(sim.NewMessage("p", 1), 0, "node-a")
	records := s.Records()
	s.Recv(sim.NewMessage("q", 2), 1, "node-a")

	require.Len(t, records, 1, "earlier snapshot must not see the later Recv")
	require.Equal(t, 2, s.Len())
}
