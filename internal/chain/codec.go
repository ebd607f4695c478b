package chain

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MaxFishFileSize bounds how large a .fish file Load will read, matching
// spec.md's 1 MiB ceiling on chain persistence.
const MaxFishFileSize = 1024 * 1024

const fishSignature = "JFS1"
const fishVersion = "1.0.0"

// Save writes the chain to path in the .fish textual format. Save is
// all-or-nothing: a partial write never leaves a file that Load would
// accept as valid (we write to a temp file and rename).
func (c *Chain) Save(path string) error {
	data := c.Marshal()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return newErr("save", KindIOFailure, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return newErr("save", KindIOFailure, err)
	}
	return nil
}

// Marshal renders the chain in the .fish textual format: a fixed key
// order (signature, version, origin_device_id, created_at, updated_at,
// blocks[]), hex-encoded byte fields, and backslash-escaped strings.
func (c *Chain) Marshal() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "{\n")
	fmt.Fprintf(&b, "  \"signature\": %q,\n", fishSignature)
	fmt.Fprintf(&b, "  \"version\": %q,\n", fishVersion)
	fmt.Fprintf(&b, "  \"origin_device_id\": \"%s\",\n", hex.EncodeToString(c.DeviceID[:]))
	fmt.Fprintf(&b, "  \"created_at\": %d,\n", c.CreatedAt)
	fmt.Fprintf(&b, "  \"updated_at\": %d,\n", c.UpdatedAt)
	fmt.Fprintf(&b, "  \"blocks\": [\n")

	for i := 0; i < c.Count; i++ {
		blk := &c.Memory[i]

		fmt.Fprintf(&b, "    {\n")
		fmt.Fprintf(&b, "      \"block_index\": %d,\n", i)
		fmt.Fprintf(&b, "      \"input\": \"%s\",\n", escapeFish(blk.Input))
		fmt.Fprintf(&b, "      \"output\": \"%s\",\n", escapeFish(blk.Output))
		fmt.Fprintf(&b, "      \"hash\": \"%s\",\n", hex.EncodeToString(blk.Hash[:]))

		if i > 0 {
			fmt.Fprintf(&b, "      \"previous_hash\": \"%s\",\n", hex.EncodeToString(c.Memory[i-1].Hash[:]))
		} else {
			fmt.Fprintf(&b, "      \"previous_hash\": \"%s\",\n", strings.Repeat("00", HashSize))
		}

		fmt.Fprintf(&b, "      \"timestamp\": %d,\n", blk.Timestamp)
		fmt.Fprintf(&b, "      \"delta_ms\": %d,\n", blk.DeltaMs)
		fmt.Fprintf(&b, "      \"duration_ms\": %d,\n", blk.DurationMs)

		valid := 0
		if blk.Valid {
			valid = 1
		}
		fmt.Fprintf(&b, "      \"valid\": %d,\n", valid)
		fmt.Fprintf(&b, "      \"confidence\": %.6f,\n", blk.Confidence)
		fmt.Fprintf(&b, "      \"usage_count\": %d,\n", blk.UsageCount)
		fmt.Fprintf(&b, "      \"device_id\": \"%s\",\n", hex.EncodeToString(blk.DeviceID[:]))
		fmt.Fprintf(&b, "      \"signature\": \"%s\"\n", hex.EncodeToString(blk.Signature[:]))

		if i < c.Count-1 {
			fmt.Fprintf(&b, "    },\n")
		} else {
			fmt.Fprintf(&b, "    }\n")
		}
	}

	fmt.Fprintf(&b, "  ]\n")
	fmt.Fprintf(&b, "}\n")

	return []byte(b.String())
}

func escapeFish(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Load reads a .fish file into a fresh chain. Load is atomic: on any
// parse failure the returned chain is nil and the original is untouched.
func Load(path string) (*Chain, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newErr("load", KindIOFailure, err)
	}
	if info.Size() <= 0 || info.Size() > MaxFishFileSize {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("file size %d out of bounds", info.Size()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr("load", KindIOFailure, err)
	}

	return Unmarshal(data)
}

// Unmarshal parses the .fish textual format from an in-memory buffer,
// without the filesystem size/atomicity guarantees Load adds.
func Unmarshal(data []byte) (*Chain, error) {
	p := &fishParser{buf: string(data)}
	c := &Chain{}

	if !p.symbol('{') {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("expected {"))
	}
	if !p.matchKeyValue("signature", fishSignature) {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("bad or missing signature"))
	}
	p.skipKeyValue("version", fishVersion)

	if !p.key("origin_device_id") || !p.symbol('"') {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("missing origin_device_id"))
	}
	if !p.hexBytes(c.DeviceID[:]) || !p.symbol('"') {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("malformed origin_device_id"))
	}
	p.skipComma()

	createdAt, ok := p.numberField("created_at")
	if !ok {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("missing created_at"))
	}
	c.CreatedAt = uint64(createdAt)

	updatedAt, ok := p.numberField("updated_at")
	if !ok {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("missing updated_at"))
	}
	c.UpdatedAt = uint64(updatedAt)

	if !p.key("blocks") || !p.symbol('[') {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("missing blocks array"))
	}

	count := 0
	for p.skipSpace(); p.peek() != ']' && p.peek() != 0 && count < MaxBlocks; p.skipSpace() {
		var b Block
		if !p.symbol('{') {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: expected {", count))
		}
		if _, ok := p.numberField("block_index"); !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad block_index", count))
		}

		in, ok := p.stringField("input")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad input", count))
		}
		b.Input = in

		out, ok := p.stringField("output")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad output", count))
		}
		b.Output = out

		if !p.key("hash") || !p.symbol('"') || !p.hexBytes(b.Hash[:]) || !p.symbol('"') {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad hash", count))
		}
		p.skipComma()
		var discard [HashSize]byte
		if !p.key("previous_hash") || !p.symbol('"') || !p.hexBytes(discard[:]) || !p.symbol('"') {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad previous_hash", count))
		}
		p.skipComma()

		ts, ok := p.numberField("timestamp")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad timestamp", count))
		}
		b.Timestamp = uint64(ts)

		deltaMs, ok := p.numberField("delta_ms")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad delta_ms", count))
		}
		b.DeltaMs = uint32(deltaMs)

		durationMs, ok := p.numberField("duration_ms")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad duration_ms", count))
		}
		b.DurationMs = uint32(durationMs)

		validNum, ok := p.numberField("valid")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad valid", count))
		}
		b.Valid = validNum != 0

		conf, ok := p.numberField("confidence")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad confidence", count))
		}
		b.Confidence = conf

		usage, ok := p.numberField("usage_count")
		if !ok {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad usage_count", count))
		}
		b.UsageCount = uint32(usage)

		if !p.key("device_id") || !p.symbol('"') || !p.hexBytes(b.DeviceID[:]) || !p.symbol('"') {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad device_id", count))
		}
		p.skipComma()
		if !p.key("signature") || !p.symbol('"') || !p.hexBytes(b.Signature[:]) || !p.symbol('"') {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: bad signature", count))
		}

		if !p.symbol('}') {
			return nil, newErr("load", KindParseFailure, fmt.Errorf("block %d: expected }", count))
		}
		p.skipComma()

		c.Memory[count] = b
		count++
	}

	if !p.symbol(']') || !p.symbol('}') {
		return nil, newErr("load", KindParseFailure, fmt.Errorf("malformed blocks terminator"))
	}

	c.Count = count
	return c, nil
}

// fishParser is a minimal cursor-based reader over the .fish text, mirroring
// the original's pointer-walking match_key_value/skip_key/skip_symbol/
// parse_hex_field/parse_string_field/parse_number_field helpers.
type fishParser struct {
	buf string
	pos int
}

func (p *fishParser) peek() byte {
	if p.pos >= len(p.buf) {
		return 0
	}
	return p.buf[p.pos]
}

func (p *fishParser) skipSpace() {
	for p.pos < len(p.buf) {
		switch p.buf[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *fishParser) symbol(c byte) bool {
	p.skipSpace()
	if p.peek() != c {
		return false
	}
	p.pos++
	return true
}

func (p *fishParser) skipComma() {
	p.skipSpace()
	if p.peek() == ',' {
		p.pos++
	}
}

// key matches `"name":` and advances past it.
func (p *fishParser) key(name string) bool {
	p.skipSpace()
	if !p.symbol('"') {
		return false
	}
	if !strings.HasPrefix(p.buf[p.pos:], name) {
		return false
	}
	p.pos += len(name)
	if !p.symbol('"') {
		return false
	}
	return p.symbol(':')
}

// matchKeyValue matches `"key": "value"` exactly.
func (p *fishParser) matchKeyValue(key, value string) bool {
	save := p.pos
	if !p.key(key) {
		p.pos = save
		return false
	}
	p.skipSpace()
	if !p.symbol('"') {
		p.pos = save
		return false
	}
	if !strings.HasPrefix(p.buf[p.pos:], value) {
		p.pos = save
		return false
	}
	p.pos += len(value)
	if !p.symbol('"') {
		p.pos = save
		return false
	}
	p.skipComma()
	return true
}

// skipKeyValue optionally matches and consumes `"key": "value"`, but never
// fails — the version field is informational only.
func (p *fishParser) skipKeyValue(key, value string) {
	if p.matchKeyValue(key, value) {
		return
	}
	save := p.pos
	if _, ok := p.stringField(key); !ok {
		p.pos = save
	}
}

func (p *fishParser) stringField(name string) (string, bool) {
	if !p.key(name) || !p.symbol('"') {
		return "", false
	}
	var b strings.Builder
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if c == '"' {
			p.pos++
			p.skipComma()
			return b.String(), true
		}
		if c == '\\' && p.pos+1 < len(p.buf) {
			p.pos++
			c = p.buf[p.pos]
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", false
}

func (p *fishParser) hexBytes(out []byte) bool {
	for i := range out {
		if p.pos+2 > len(p.buf) {
			return false
		}
		v, err := hex.DecodeString(p.buf[p.pos : p.pos+2])
		if err != nil {
			return false
		}
		out[i] = v[0]
		p.pos += 2
	}
	return true
}

func (p *fishParser) numberField(name string) (float64, bool) {
	if !p.key(name) {
		return 0, false
	}
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return 0, false
	}
	v, err := strconv.ParseFloat(p.buf[start:p.pos], 64)
	if err != nil {
		return 0, false
	}
	p.skipComma()
	return v, true
}
