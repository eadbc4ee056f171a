package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anirudhsk/meshtrace/sim/wire"
)

type echoExecutor struct{}

func (echoExecutor) Execute(msg *wire.Message) []*wire.Message { return []*wire.Message{msg} }

func TestPluginWrapperBuffersUntilTick(t *testing.T) {
	p := NewPluginWrapper("n1", echoExecutor{})
	msg := wire.NewMessage("x", 1)
	p.Recv(msg, 0, "sender")

	out := p.Tick(0)
	require.Len(t, out, 1)
	require.Equal(t, msg, out[0])

	// buffer cleared; a second tick with nothing pending yields nothing
	require.Empty(t, p.Tick(1))
}

func TestPluginWrapperPanicsOnOverwrite(t *testing.T) {
	p := NewPluginWrapper("n1", echoExecutor{})
	p.Recv(wire.NewMessage("a", 1), 0, "sender")
	require.PanicsWithValue(t, ErrOverwrite, func() {
		p.Recv(wire.NewMessage("b", 2), 0, "sender")
	})
}
