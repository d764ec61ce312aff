package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/samber/lo"
)

// recordWriter appends game records as zstd-compressed JSON lines. Safe for concurrent use.
type recordWriter struct {
	mu  sync.Mutex
	zw  *zstd.Encoder
	enc *json.Encoder
}

func newRecordWriter(w io.Writer) (*recordWriter, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &recordWriter{zw: zw, enc: json.NewEncoder(zw)}, nil
}

func (rw *recordWriter) Write(rec gameRecord) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if err := rw.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode game %s: %w", rec.ID, err)
	}
	return nil
}

// Close flushes the compressed stream; it does not close the underlying writer.
func (rw *recordWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.zw.Close()
}

// readRecords decodes a stream written by recordWriter.
func readRecords(r io.Reader) ([]gameRecord, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer zr.Close()
	var recs []gameRecord
	dec := json.NewDecoder(zr)
	for dec.More() {
		var rec gameRecord
		if err := dec.Decode(&rec); err != nil {
			return recs, fmt.Errorf("decode record %d: %w", len(recs), err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// tally is the match score from one player's point of view.
type tally struct {
	Player  string
	Wins    int
	Losses  int
	Draws   int
	Reasons map[string]int
}

func (t tally) Points() float64 { return float64(t.Wins) + float64(t.Draws)/2 }

func tallyFor(name string, recs []gameRecord) tally {
	finished := lo.Filter(recs, func(r gameRecord, _ int) bool { return r.Result != resultNone })
	won := func(r gameRecord) bool {
		return (r.White == name && r.Result == resultWhite) || (r.Black == name && r.Result == resultBlack)
	}
	lost := func(r gameRecord) bool {
		return (r.White == name && r.Result == resultBlack) || (r.Black == name && r.Result == resultWhite)
	}
	byReason := lo.GroupBy(finished, func(r gameRecord) string { return r.Reason })
	return tally{
		Player:  name,
		Wins:    lo.CountBy(finished, won),
		Losses:  lo.CountBy(finished, lost),
		Draws:   lo.CountBy(finished, func(r gameRecord) bool { return r.Result == resultDraw }),
		Reasons: lo.MapValues(byReason, func(v []gameRecord, _ string) int { return len(v) }),
	}
}
