// ABOUTME: Beat sink adapters for the scheduler's outward event surface.
// ABOUTME: ChannelSink exposes beats as a stream without blocking the loop.
package metronome

// ChannelSink delivers beats on a buffered channel. When the consumer
// falls behind and the buffer fills, beats are dropped rather than letting
// the cadence loop block.
type ChannelSink struct {
	ch chan Beat
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelSink{ch: make(chan Beat, buffer)}
}

// Beats returns the receive side of the stream.
func (c *ChannelSink) Beats() <-chan Beat {
	return c.ch
}

// Beat implements Sink.
func (c *ChannelSink) Beat(b Beat) error {
	select {
	case c.ch <- b:
	default:
	}
	return nil
}
