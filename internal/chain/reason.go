package chain

import "strings"

const unknownOutput = "Unknown"

// similarity scores two strings by positional, case-insensitive mismatch
// count plus a penalty for any leftover length difference. This is
// deliberately not an edit-distance metric — see spec.md's design notes.
func similarity(a, b string) int {
	cost := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if toLower(a[i]) != toLower(b[j]) {
			cost++
		}
		i++
		j++
	}
	cost += len(a) - i
	cost += len(b) - j
	return cost
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Reason returns the output best associated with input: an exact match if
// one exists (which also reinforces that block), otherwise the closest
// fuzzy match within a ⌊len(input)/2⌋ mismatch threshold, otherwise
// "Unknown".
func (c *Chain) Reason(input string) string {
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if b.Valid && b.Input == input {
			b.UsageCount++
			if b.Confidence < maxConfidence {
				b.Confidence += 0.05
			}
			return b.Output
		}
	}

	bestScore := 1000
	bestOutput := unknownOutput
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid {
			continue
		}
		score := similarity(input, b.Input)
		if score == 0 {
			return b.Output
		}
		if score < bestScore {
			bestScore = score
			bestOutput = b.Output
		}
	}

	if bestScore > len(input)/2 {
		return unknownOutput
	}
	return bestOutput
}

// ReasonVerbose returns the best exact match by input (ties broken in
// favor of immutable blocks), its confidence, and the matched block.
// The sentinel "Unknown"/0.0/nil/false is returned when no block matches.
func (c *Chain) ReasonVerbose(input string) (output string, confidence float64, block *Block, ok bool) {
	var best *Block
	bestConf := -1.0
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid || b.Input != input {
			continue
		}
		if b.Confidence > bestConf || (b.Confidence == bestConf && b.Immutable && (best == nil || !best.Immutable)) {
			best = b
			bestConf = b.Confidence
		}
	}
	if best != nil {
		return best.Output, best.Confidence, best, true
	}
	return unknownOutput, 0, nil, false
}

// BestMatch returns the highest-confidence valid block whose input matches
// exactly, preferring immutable blocks on a confidence tie.
func (c *Chain) BestMatch(input string) *Block {
	var best *Block
	bestConfidence := -1.0
	for i := 0; i < c.Count; i++ {
		b := &c.Memory[i]
		if !b.Valid || b.Input != input {
			continue
		}
		if b.Confidence > bestConfidence {
			best = b
			bestConfidence = b.Confidence
		} else if b.Confidence == bestConfidence && b.Immutable && (best == nil || !best.Immutable) {
			best = b
		}
	}
	return best
}

// Tokenize splits input into lowercase alphanumeric tokens, truncating each
// to TokenSize-1 bytes, up to maxTokens tokens.
func Tokenize(input string, maxTokens int) []string {
	var tokens []string
	i := 0
	for i < len(input) && len(tokens) < maxTokens {
		for i < len(input) && !isAlnum(input[i]) {
			i++
		}
		if i >= len(input) {
			break
		}
		var b strings.Builder
		for i < len(input) && isAlnum(input[i]) && b.Len() < TokenSize-1 {
			b.WriteByte(toLower(input[i]))
			i++
		}
		// Skip any remaining alnum bytes beyond the token cap without emitting them.
		for i < len(input) && isAlnum(input[i]) {
			i++
		}
		tokens = append(tokens, b.String())
	}
	return tokens
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
