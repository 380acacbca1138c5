package cluster

import (
	"github.com/hashicorp/go-hclog"

	"github.com/cuemby/raftkv/internal/log"
)

// logWriter adapts this package's zerolog-based logger to the io.Writer
// hashicorp/raft's NewTCPTransport wants for its own connection-level
// trace output.
type logWriter struct {
	component string
}

func (w logWriter) Write(p []byte) (int, error) {
	log.WithComponent(w.component).Debug().Msg(string(p))
	return len(p), nil
}

// newHCLogAdapter builds the hclog.Logger raft.Config.Logger expects,
// routed through the same zerolog sink as the rest of this node so Raft's
// internal state-transition logging shows up tagged with component "raft".
// No raft_id field is attached.
func newHCLogAdapter(nodeID string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "raft",
		Output: logWriter{component: "raft"},
		Level:  hclog.Info,
	})
}
