package track

import (
	"context"
	"time"

	"subweave/internal/provider"
	"subweave/internal/subtitle"
)

// Merge aligns two initialized tracks into a new one. Entries of src and
// target whose start times lie within delta of each other are combined
// into a single entry carrying both texts joined by joinWith; everything
// else passes through unchanged. Output indices are reassigned densely
// from 0 in emission order.
//
// Both inputs must be sorted ascending by start time; the output is not
// re-sorted, its order follows from the interleaving. The inputs are read
// as snapshots and never mutated.
func Merge(
	ctx context.Context,
	src, target *Controller,
	delta time.Duration,
	joinWith string,
) (*Controller, error) {
	if !src.initialized() || !target.initialized() {
		return nil, ErrNotInitialized
	}

	srcEntries := src.Entries()
	targetEntries := target.Entries()

	merged := make([]subtitle.Entry, 0, len(srcEntries)+len(targetEntries))
	targetIndex := 0

	// The target cursor only ever moves forward: once a target entry has
	// been emitted or merged it is consumed for good.
	for _, s1 := range srcEntries {
		beMerged := false

		for targetIndex < len(targetEntries) {
			s2 := targetEntries[targetIndex]

			diff := s1.StartTime - s2.StartTime
			abs := diff
			if abs < 0 {
				abs = -abs
			}

			if abs <= delta {
				// aligned: one s1 may absorb several consecutive close
				// target entries, each producing its own merged record
				merged = append(merged, subtitle.Entry{
					Index:     len(merged),
					StartTime: s1.StartTime,
					EndTime:   s1.EndTime,
					Text:      s1.Text + joinWith + s2.Text,
				})
				beMerged = true
				targetIndex++
				continue
			}

			if diff > 0 {
				// s2 starts before s1's window; emit it unmatched
				merged = append(merged, subtitle.Entry{
					Index:     len(merged),
					StartTime: s2.StartTime,
					EndTime:   s2.EndTime,
					Text:      s2.Text,
				})
				targetIndex++
				continue
			}

			// s2 starts after s1's window; leave it for a later s1
			break
		}

		if !beMerged {
			merged = append(merged, subtitle.Entry{
				Index:     len(merged),
				StartTime: s1.StartTime,
				EndTime:   s1.EndTime,
				Text:      s1.Text,
			})
		}
	}

	for ; targetIndex < len(targetEntries); targetIndex++ {
		s2 := targetEntries[targetIndex]
		merged = append(merged, subtitle.Entry{
			Index:     len(merged),
			StartTime: s2.StartTime,
			EndTime:   s2.EndTime,
			Text:      s2.Text,
		})
	}

	out := New(provider.NewStatic(merged))
	if err := out.Initialize(ctx); err != nil {
		return nil, err
	}
	return out, nil
}
