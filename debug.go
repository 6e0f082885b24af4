package warviz

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	traverseTime time.Duration
	sortTime     time.Duration
	submitTime   time.Duration
	commandCount int
	nodeCount    int
}

// debugLog writes frame stats through the scene logger at debug level.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	s.logger.Debug("frame",
		zap.Duration("traverse", stats.traverseTime),
		zap.Duration("sort", stats.sortTime),
		zap.Duration("submit", stats.submitTime),
		zap.Duration("total", stats.traverseTime+stats.sortTime+stats.submitTime),
		zap.Int("commands", stats.commandCount),
		zap.Int("nodes", stats.nodeCount),
		zap.Int("handlers", s.HandlerCount()),
	)
	if stats.nodeCount > debugMaxNodeCount {
		s.logger.Warn("scene node count above threshold",
			zap.Int("nodes", stats.nodeCount),
			zap.Int("threshold", debugMaxNodeCount))
	}
}

// debugMaxNodeCount is well above what one mounted view needs; crossing it
// usually means a view was mounted without tearing down the previous one.
const debugMaxNodeCount = 2000

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called when the scene is in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("warviz debug: %s on disposed node %q", op, n.Name))
	}
}
