package mindset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fossillogic/jellyfish/internal/chain"
)

const maxModelsPerFile = 64

// LoadFile parses a .jellyfish (JellyDSL) file and returns the models it
// declares. The format is line-oriented: a record opens with
// `model('name') {`, followed by indented `key: value` lines, and closes
// on a line containing `}`. List values are `[a, b, c]`. Unknown keys are
// ignored; this is a deliberately forgiving DSL, not strict JSON.
func LoadFile(path string) ([]*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mindset: open %s: %w", path, err)
	}
	defer f.Close()

	var models []*Model
	var current *Model
	inModel := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024), 1024)

	for scanner.Scan() {
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)

		if strings.HasPrefix(trimmed, "model(") {
			if len(models) >= maxModelsPerFile {
				break
			}
			current = &Model{}
			if name := extractQuoted(trimmed); name != "" {
				current.Name = name
			}
			models = append(models, current)
			inModel = true
			continue
		}

		if !inModel || current == nil {
			continue
		}

		if strings.Contains(trimmed, "}") {
			inModel = false
			continue
		}

		key, value, ok := splitKeyValue(trimmed)
		if !ok {
			continue
		}

		applyField(current, key, value, raw)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mindset: scan %s: %w", path, err)
	}

	return models, nil
}

func extractQuoted(s string) string {
	start := strings.IndexByte(s, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	value = strings.Trim(value, `'"`)
	return key, value, true
}

func applyField(m *Model, key, value, rawLine string) {
	switch key {
	case "description":
		m.Description = value
	case "activation_condition":
		m.ActivationCondition = value
	case "source_uri":
		m.SourceURI = value
	case "origin_device_id":
		m.OriginDeviceID = value
	case "version":
		m.Version = value
	case "content_hash":
		m.ContentHash = value
	case "state_machine":
		m.StateMachine = value
	case "created_at":
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			m.CreatedAt = v
		}
	case "updated_at":
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			m.UpdatedAt = v
		}
	case "trust_score":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			m.TrustScore = v
		}
	case "immutable":
		if v, err := strconv.Atoi(value); err == nil {
			m.Immutable = v != 0
		}
	case "priority":
		if v, err := strconv.Atoi(value); err == nil {
			m.Priority = v
		}
	case "confidence_threshold":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			m.ConfidenceThreshold = v
		}
	case "tags":
		m.Tags = append(m.Tags, parseList(rawLine, chain.MaxTags)...)
	case "models":
		m.Models = append(m.Models, parseList(rawLine, chain.MaxModels)...)
	}
}

// parseList extracts up to max comma-separated, quote-trimmed entries from
// a `key: [a, 'b', "c"]` line.
func parseList(line string, max int) []string {
	open := strings.IndexByte(line, '[')
	if open < 0 {
		return nil
	}
	close := strings.IndexByte(line[open:], ']')
	inner := line[open+1:]
	if close >= 0 {
		inner = line[open+1 : open+close]
	}

	var out []string
	for _, tok := range strings.Split(inner, ",") {
		tok = strings.TrimSpace(tok)
		tok = strings.Trim(tok, `'"`)
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
		if len(out) >= max {
			break
		}
	}
	return out
}
