// Package parser decodes, validates and encodes the tracker document.
//
// Every decoded document is normalized before it is handed out: missing ids
// are filled, scores are clamped, status is re-derived from the scores and
// the player statistics cache is rebuilt. A caller can therefore never
// observe a status or statistic that disagrees with the scores.
package parser

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/model"
)

// DefaultCourtCount applies when neither the document nor its matches say
// how many courts there are.
const DefaultCourtCount = 3

// ErrInvalidDocument is returned for input that is not JSON or has no
// array-typed "matches" field.
var ErrInvalidDocument = errors.New("invalid document")

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Decode reads a document from r. Zstandard-compressed input is detected by
// its magic number and decompressed transparently.
func Decode(r io.Reader) (*model.Document, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))
	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes parses an uncompressed JSON document.
func DecodeBytes(data []byte) (*model.Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	raw, ok := fields["matches"]
	if !ok {
		return nil, fmt.Errorf("%w: missing matches", ErrInvalidDocument)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: matches is not an array", ErrInvalidDocument)
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	Normalize(&doc)
	return &doc, nil
}

// ParseFile decodes the document at path and returns it with the content
// hash of its canonical encoding.
func ParseFile(path string) (*model.Document, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, "", err
	}
	hash, err := Hash(*doc)
	if err != nil {
		return nil, "", err
	}
	return doc, hash, nil
}

// Normalize fixes up a decoded document in place.
func Normalize(doc *model.Document) {
	seen := make(map[string]struct{}, len(doc.Matches))
	maxCourt := 0
	for i := range doc.Matches {
		m := &doc.Matches[i]
		if _, dup := seen[m.ID]; m.ID == "" || dup {
			m.ID = uuid.NewString()
		}
		seen[m.ID] = struct{}{}
		if m.Round < 1 {
			m.Round = 1
		}
		if m.Court < 1 {
			m.Court = 1
		}
		for j := range m.ScoreA {
			m.ScoreA[j] = max(m.ScoreA[j], 0)
			m.ScoreB[j] = max(m.ScoreB[j], 0)
		}
		m.Status = aggregator.StatusOf(*m)
		maxCourt = max(maxCourt, m.Court)
	}
	doc.CourtCount = max(doc.CourtCount, maxCourt)
	if doc.CourtCount < 1 {
		doc.CourtCount = DefaultCourtCount
	}
	doc.PlayerStats = aggregator.PlayerStats(doc.Matches)
}

// Options controls Encode.
type Options struct {
	Compress bool
}

// Encode writes the document as two-space indented JSON, zstd-compressed
// when requested.
func Encode(w io.Writer, doc model.Document, opts Options) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if !opts.Compress {
		_, err = w.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("zstd write: %w", err)
	}
	return enc.Close()
}

// Marshal returns the canonical indented encoding.
func Marshal(doc model.Document) ([]byte, error) {
	if doc.Matches == nil {
		doc.Matches = []model.MatchRecord{}
	}
	if doc.PlayerStats == nil {
		doc.PlayerStats = map[string]model.PlayerStats{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// Hash is the SHA-256 of the canonical encoding, used as the archive's
// idempotency key.
func Hash(doc model.Document) (string, error) {
	data, err := Marshal(doc)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9\p{Han}]`)

// ExportFileName derives the default export name from the event name.
func ExportFileName(eventName string, compress bool) string {
	name := unsafeFileChars.ReplaceAllString(strings.TrimSpace(eventName), "_")
	if name == "" {
		name = "event"
	}
	name += "_比分数据.json"
	if compress {
		name += ".zst"
	}
	return name
}
