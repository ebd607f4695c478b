package chain

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Chain is a bounded, append-style associative memory: at most MaxBlocks
// blocks, with Count tracking how many of the leading slots are in use.
// Blocks beyond Count are zero-valued. There are no pointers between
// blocks — no cyclic references are possible by construction.
type Chain struct {
	Memory    [MaxBlocks]Block
	Count     int
	DeviceID  [DeviceIDSize]byte
	CreatedAt uint64
	UpdatedAt uint64
}

// New returns an initialized, empty chain stamped with deviceID.
func New(deviceID [DeviceIDSize]byte) *Chain {
	c := &Chain{DeviceID: deviceID}
	now := nowUnix()
	c.CreatedAt = now
	c.UpdatedAt = now
	return c
}

// Learn admits a new (input, output) pair, or reinforces it if an identical
// pair already exists. This is the admit/reinforce algorithm from spec.md
// §4.2: reinforce first, then reuse an invalid slot, then cleanup and retry
// once. If the chain is still full after cleanup, Learn reports
// ErrCapacityReached rather than dropping the pair silently — see
// DESIGN.md for why this Open Question was resolved that way.
func (c *Chain) Learn(input, output string) error {
	truncIn := truncate(input, InCap)
	truncOut := truncate(output, OutCap)
	if truncIn != input || truncOut != output {
		log.Printf("chain: truncating admit (%d -> %d, %d -> %d chars)", len(input), len(truncIn), len(output), len(truncOut))
	}
	input, output = truncIn, truncOut

	// Step 1: reinforce an existing identical pair.
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid {
			continue
		}
		if b.Input == input && b.Output == output {
			b.Confidence += 0.1
			if b.Confidence > maxConfidence {
				b.Confidence = maxConfidence
			}
			b.UsageCount++
			b.Timestamp = nowUnix()
			c.UpdatedAt = b.Timestamp
			return nil
		}
	}

	if c.admitInto(input, output) {
		return nil
	}

	c.Cleanup()

	if c.admitInto(input, output) {
		return nil
	}

	return newErr("learn", KindCapacityReached, fmt.Errorf("chain full at %d blocks", MaxBlocks))
}

// admitInto finds the first invalid slot (scanning the whole fixed array,
// not just the first Count slots) and initializes a fresh block there.
func (c *Chain) admitInto(input, output string) bool {
	for i := 0; i < MaxBlocks; i++ {
		b := &c.Memory[i]
		if b.Valid {
			continue
		}

		var prevTS uint64
		for j := i - 1; j >= 0; j-- {
			if c.Memory[j].Valid {
				prevTS = c.Memory[j].Timestamp
				break
			}
		}

		*b = Block{}
		b.Input = input
		b.Output = output
		b.Timestamp = nowUnix()
		if prevTS != 0 {
			b.DeltaMs = uint32((b.Timestamp - prevTS) * 1000)
		}
		b.Valid = true
		b.Confidence = maxConfidence
		b.Hash = Mix(input, output)

		c.UpdatedAt = b.Timestamp
		if i >= c.Count {
			c.Count = i + 1
		}
		return true
	}
	return false
}

// Cleanup compacts the chain, keeping only blocks that are valid and have
// confidence >= 0.05. Removed slots are zeroed.
func (c *Chain) Cleanup() {
	dst := 0
	for src := 0; src < MaxBlocks; src++ {
		b := &c.Memory[src]
		if b.Valid && b.Confidence >= minConfidence {
			if dst != src {
				c.Memory[dst] = *b
			}
			dst++
		} else {
			c.Memory[src] = Block{}
		}
	}
	c.Count = dst
}

// Compact moves all valid blocks to the front, preserving order, without
// filtering on confidence. Returns the number of blocks moved.
func (c *Chain) Compact() int {
	newIndex := 0
	moved := 0
	for i := 0; i < c.Count; i++ {
		if c.Memory[i].Valid {
			if i != newIndex {
				c.Memory[newIndex] = c.Memory[i]
				moved++
			}
			newIndex++
		}
	}
	for i := newIndex; i < c.Count; i++ {
		c.Memory[i] = Block{}
	}
	c.Count = newIndex
	return moved
}

// Prune removes every block that is invalid or below minConfidence,
// shifting the remainder left in place. Returns the number removed.
func (c *Chain) Prune(minConf float64) int {
	if c.Count == 0 {
		return 0
	}
	pruned := 0
	i := 0
	for i < c.Count {
		b := &c.Memory[i]
		if !b.Valid || b.Confidence < minConf {
			copy(c.Memory[i:c.Count-1], c.Memory[i+1:c.Count])
			c.Memory[c.Count-1] = Block{}
			c.Count--
			pruned++
			continue
		}
		i++
	}
	return pruned
}

// Dedupe removes exact duplicate (input, output) blocks, keeping the first
// occurrence. O(n^2), matching the original's nested-loop implementation —
// chains are bounded by MaxBlocks so this stays cheap.
func (c *Chain) Dedupe() int {
	if c.Count < 2 {
		return 0
	}
	removed := 0
	for i := 0; i < c.Count; i++ {
		a := &c.Memory[i]
		j := i + 1
		for j < c.Count {
			b := &c.Memory[j]
			if a.Input == b.Input && a.Output == b.Output {
				copy(c.Memory[j:c.Count-1], c.Memory[j+1:c.Count])
				c.Memory[c.Count-1] = Block{}
				c.Count--
				removed++
				continue
			}
			j++
		}
	}
	return removed
}

// Trim keeps at most maxBlocks entries, sorted by confidence descending,
// discarding the rest. Returns the number discarded.
func (c *Chain) Trim(maxBlocks int) int {
	if c.Count <= maxBlocks {
		return 0
	}
	sort.SliceStable(c.Memory[:c.Count], func(i, j int) bool {
		return c.Memory[i].Confidence > c.Memory[j].Confidence
	})
	removed := c.Count - maxBlocks
	for i := maxBlocks; i < c.Count; i++ {
		c.Memory[i] = Block{}
	}
	c.Count = maxBlocks
	return removed
}

// Compress trims leading/trailing whitespace from every block's stored
// input/output. Returns the number of blocks modified.
func (c *Chain) Compress() int {
	modified := 0
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		origIn, origOut := b.Input, b.Output
		b.Input = strings.TrimSpace(b.Input)
		b.Output = strings.TrimSpace(b.Output)
		if b.Input != origIn || b.Output != origOut {
			modified++
		}
	}
	return modified
}

// Redact destroys a block's content in place: input/output become a
// redaction marker, the hash is zeroed, and confidence drops to zero. The
// slot stays valid — this is for removing sensitive content while keeping
// the chain's positional/audit structure intact.
func (c *Chain) Redact(index int) error {
	if index < 0 || index >= c.Count {
		return newErr("redact", KindInvalidArgument, fmt.Errorf("index %d out of range", index))
	}
	b := &c.Memory[index]
	b.Input = "***REDACTED***"
	b.Output = "***REDACTED***"
	b.Hash = [HashSize]byte{}
	b.Confidence = 0
	return nil
}

// Clone returns a deep copy of the chain.
func (c *Chain) Clone() *Chain {
	dst := &Chain{}
	*dst = *c
	return dst
}

// DetectConflict reports whether input is already associated with a
// different, valid output.
func (c *Chain) DetectConflict(input, output string) bool {
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid || b.Input != input {
			continue
		}
		if b.Output != output {
			return true
		}
	}
	return false
}

// FindByHash returns the first valid block whose hash matches, or nil.
func (c *Chain) FindByHash(hash [HashSize]byte) *Block {
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if b.Valid && b.Hash == hash {
			return b
		}
	}
	return nil
}

// MarkImmutable flags a block so it is preferred on confidence ties and
// counted toward TrustScore.
func (c *Chain) MarkImmutable(index int) error {
	if index < 0 || index >= c.Count {
		return newErr("mark_immutable", KindInvalidArgument, fmt.Errorf("index %d out of range", index))
	}
	c.Memory[index].Immutable = true
	return nil
}

// Stats aggregates cheap, frequently-requested summary statistics.
type Stats struct {
	ValidCount      int
	AvgConfidence   float64
	ImmutableRatio  float64
}

// ChainStats computes valid count, mean confidence, and immutable ratio
// across valid blocks.
func (c *Chain) ChainStats() Stats {
	var valid, immutable int
	var confSum float64
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid {
			continue
		}
		valid++
		confSum += b.Confidence
		if b.Immutable {
			immutable++
		}
	}
	s := Stats{ValidCount: valid}
	if valid > 0 {
		s.AvgConfidence = confSum / float64(valid)
		s.ImmutableRatio = float64(immutable) / float64(valid)
	}
	return s
}

// CompareChains counts the number of positions whose hash differs (or is
// missing) between a and b.
func CompareChains(a, b *Chain) int {
	max := a.Count
	if b.Count > max {
		max = b.Count
	}
	diff := 0
	for i := 0; i < max; i++ {
		var ha, hb *Block
		if i < a.Count {
			ha = &a.Memory[i]
		}
		if i < b.Count {
			hb = &b.Memory[i]
		}
		if ha == nil || hb == nil || ha.Hash != hb.Hash {
			diff++
		}
	}
	return diff
}

// KnowledgeCoverage returns the fraction of blocks that are fully valid:
// valid flag set, non-empty input/output, non-zero hash/device_id/
// signature/timestamp.
func (c *Chain) KnowledgeCoverage() float64 {
	if c.Count == 0 {
		return 0
	}
	var valid int
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid || b.Input == "" || b.Output == "" {
			continue
		}
		if b.Hash == [HashSize]byte{} {
			continue
		}
		if b.DeviceID == [DeviceIDSize]byte{} || b.Signature == [SignatureSize]byte{} {
			continue
		}
		if b.Timestamp == 0 {
			continue
		}
		valid++
	}
	return float64(valid) / float64(c.Count)
}

// BestMemory returns the valid block with the highest confidence, or nil
// if no valid block has a confidence above zero.
func (c *Chain) BestMemory() *Block {
	var best *Block
	var bestScore float64
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid {
			continue
		}
		if b.Confidence > bestScore {
			bestScore = b.Confidence
			best = b
		}
	}
	return best
}
