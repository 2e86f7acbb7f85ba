// SPDX-License-Identifier: MIT

package trace

import (
	"go.uber.org/zap"
)

const zapMessage = "primal stage"

type zapSink struct {
	l *zap.Logger
}

// Zap returns a Sink writing each event as a Debug record on l.
// A nil logger yields Nop.
func Zap(l *zap.Logger) Sink {
	if l == nil {
		return Nop
	}

	return zapSink{l: l}
}

func (z zapSink) Trace(e Event) {
	// Check first so disabled Debug costs no field allocation.
	ce := z.l.Check(zap.DebugLevel, zapMessage)
	if ce == nil {
		return
	}
	ce.Write(
		zap.Stringer("stage", e.Stage),
		zap.Uint64("n", e.N),
		zap.Uint64("value", e.Value),
		zap.Uint64("count", e.Count),
		zap.Uint64("delta", e.Delta),
	)
}
