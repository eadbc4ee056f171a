package filter

import "github.com/anirudhsk/meshtrace/sim/wire"

// Executor is the contract a filter implementation exposes to a
// PluginWrapper: a single entry point that processes one message and
// returns zero, one, or two produced messages. Both the static Registry
// and the dynamic (.so) loader produce values satisfying this interface.
type Executor interface {
	Execute(msg *wire.Message) []*wire.Message
}

// PluginWrapper buffers exactly one pending message between ticks and
// invokes the wrapped filter's Execute on tick. Recv panics with
// ErrOverwrite if called twice without an intervening Tick — this is a
// simulator bug, never a recoverable condition.
type PluginWrapper struct {
	id      string
	impl    Executor
	pending *wire.Message
}

// NewPluginWrapper wraps impl (built by a Registry lookup or a dynamic
// load) behind the node id it is attached to.
func NewPluginWrapper(id string, impl Executor) *PluginWrapper {
	return &PluginWrapper{id: id, impl: impl}
}

// Whoami returns the owning node's id.
func (p *PluginWrapper) Whoami() string { return p.id }

// Recv buffers msg for the next Tick.
func (p *PluginWrapper) Recv(msg *wire.Message, t int64, sender string) {
	if p.pending != nil {
		panic(ErrOverwrite)
	}
	p.pending = msg
}

// Tick executes the buffered message, if any, through the wrapped filter
// and clears the buffer.
func (p *PluginWrapper) Tick(t int64) []*wire.Message {
	if p.pending == nil {
		return nil
	}
	msg := p.pending
	p.pending = nil
	return p.impl.Execute(msg)
}
