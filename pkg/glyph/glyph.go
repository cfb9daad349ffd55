// Package glyph loads sets of user defined 8x8 characters from text files and
// uploads them to a display.
//
// A glyph file holds one character per line:
//
//	# comment
//	1: 18 24 42 81 81 42 24 18
//	0x02: 0xFF 0x81 0x81 0x81 0x81 0x81 0x81 0xFF
//
// The slot before the colon is decimal or 0x prefixed hex, the eight row
// bytes are hex with an optional 0x prefix.
package glyph

import (
	"bufio"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"uoled/pkg/proto"
)

// Set maps character slots to their bitmaps.
type Set map[uint8]proto.Glyph

// Slots returns the slots of s in ascending order.
func (s Set) Slots() []uint8 {
	slots := make([]uint8, 0, len(s))
	for slot := range s {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// Load reads the glyph file at path from fs.
func Load(fs afero.Fs, path string) (Set, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	set, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return set, nil
}

// Parse reads glyph lines from r. A slot defined twice is an error.
func Parse(r io.Reader) (Set, error) {
	set := make(Set)
	sc := bufio.NewScanner(r)

	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}

		slot, g, err := parseLine(text)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		if _, dup := set[slot]; dup {
			return nil, errors.Errorf("line %d: slot %d defined twice", line, slot)
		}
		set[slot] = g
	}

	return set, sc.Err()
}

func parseLine(text string) (uint8, proto.Glyph, error) {
	var g proto.Glyph

	head, body, ok := strings.Cut(text, ":")
	if !ok {
		return 0, g, errors.New("missing ':' after slot")
	}

	slot, err := strconv.ParseUint(strings.TrimSpace(head), 0, 8)
	if err != nil {
		return 0, g, errors.Wrap(err, "slot")
	}

	rows := strings.Fields(body)
	if len(rows) != len(g) {
		return 0, g, errors.Errorf("want %d row bytes, got %d", len(g), len(rows))
	}
	for i, row := range rows {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(row), "0x"), 16, 8)
		if err != nil {
			return 0, g, errors.Wrapf(err, "row %d", i)
		}
		g[i] = byte(v)
	}

	return uint8(slot), g, nil
}

// Upload sends every glyph of set to dev, lowest slot first.
func Upload(ctx context.Context, dev proto.Control, set Set) error {
	for _, slot := range set.Slots() {
		if err := dev.AddUserBitmappedCharacter(ctx, slot, set[slot]); err != nil {
			return errors.Wrapf(err, "upload glyph %d", slot)
		}
	}
	return nil
}
