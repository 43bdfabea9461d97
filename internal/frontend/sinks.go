package frontend

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Sink is a physical transport (UART, RTT, host-debug I/O) that receives
// encoded frontend output. Implementations must tolerate interleaved short
// writes and must not call back into the frontend: the reentrancy guard
// would drop any nested log it tried to make, which is wasted work even
// though it is not unsafe.
type Sink interface {
	Name() string
	Write(p []byte) error
}

// routeSinks keeps only the sinks whose Name() matches at least one of the
// glob patterns, generalizing "route encoder output to all enabled sinks"
// (default pattern ["*"], i.e. every configured sink).
func routeSinks(sinks []Sink, patterns []string) ([]Sink, error) {
	globs := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("frontend: sink pattern %q: %w", p, err)
		}
		globs[i] = g
	}

	var routed []Sink
	for _, s := range sinks {
		for _, g := range globs {
			if g.Match(s.Name()) {
				routed = append(routed, s)
				break
			}
		}
	}
	return routed, nil
}
