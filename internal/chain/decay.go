package chain

import "math"

// Decay logic lives here rather than in a separate engine layer — this
// file documents the algorithm and is the only place that applies it.
//
// Decay algorithm (spec.md §4.5):
//   - decay_rate is treated as a half-life in seconds, clamped to >= 1.0.
//   - confidence *= 0.5 ^ (age_seconds / half_life_seconds)
//   - age_seconds is computed from block.Timestamp / 1000 — the block
//     stores seconds but the original divides by 1000 anyway. This is the
//     timestamp-unit discrepancy spec.md calls out; we preserve it exactly
//     rather than "fixing" it, since fixing it changes decay aggressiveness
//     in a way nothing in the corpus asked for. See DESIGN.md.
//   - confidence below 0.05 after decay marks the block invalid. Decay
//     never compacts — pair it with Cleanup/Compact if you want storage
//     reclaimed.

// Decay applies exponential half-life decay to every valid block's
// confidence. decayRateSeconds <= 0 is a no-op.
func (c *Chain) Decay(decayRateSeconds float64) {
	if c.Count == 0 || decayRateSeconds <= 0 {
		return
	}

	halfLife := math.Max(1.0, decayRateSeconds)
	now := nowUnix()

	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid {
			continue
		}

		blockTime := b.Timestamp / 1000
		if blockTime > now {
			continue
		}
		ageSeconds := now - blockTime
		if ageSeconds == 0 {
			continue
		}

		decayFactor := math.Pow(0.5, float64(ageSeconds)/halfLife)
		b.Confidence *= decayFactor

		if b.Confidence < 0 {
			b.Confidence = 0
		}
		if b.Confidence > maxConfidence {
			b.Confidence = maxConfidence
		}
		if b.Confidence < minConfidence {
			b.Valid = false
		}
	}
}
