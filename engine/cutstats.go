package engine

import "github.com/rs/zerolog"

// CutStatistics counts how often each cutoff mechanism ended a node early.
type CutStatistics struct {
	TTCutoffs        uint64
	BetaCutoffs      uint64
	QStandPatCutoffs uint64
	QBetaCutoffs     uint64
}

func (c CutStatistics) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("tt", c.TTCutoffs).
		Uint64("beta", c.BetaCutoffs).
		Uint64("q_standpat", c.QStandPatCutoffs).
		Uint64("q_beta", c.QBetaCutoffs)
}
