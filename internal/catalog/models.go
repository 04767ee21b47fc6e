package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// PlayerRange is the supported player count of a game.
type PlayerRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// GameRecord is a normalized catalog entry. Every field is total: missing
// numbers are 0 and missing text is "".
type GameRecord struct {
	ID          int         `json:"id"`
	Title       string      `json:"title"`
	Genre       string      `json:"genre"`
	Rating      float64     `json:"rating"`
	Players     PlayerRange `json:"players"`
	Playtime    int         `json:"playtime"`
	Description string      `json:"description"`
	Rules       string      `json:"rules"`
	Shelf       string      `json:"shelf"`
	Difficulty  string      `json:"difficulty"`
	Image       string      `json:"image"`

	// PlaytimeKnown is false when the source had no usable playtime.
	PlaytimeKnown bool `json:"-"`
}

// RawRecord is a catalog entry as a source delivers it. Numeric fields are
// left untyped so that strings, floats and nulls all survive decoding.
type RawRecord struct {
	ID          any         `json:"id" dynamodbav:"id"`
	Title       *string     `json:"title" dynamodbav:"title"`
	Genre       *string     `json:"genre" dynamodbav:"genre"`
	Rating      any         `json:"rating" dynamodbav:"rating"`
	Players     *RawPlayers `json:"players" dynamodbav:"players"`
	Playtime    any         `json:"playtime" dynamodbav:"playtime"`
	Description *string     `json:"description" dynamodbav:"description"`
	Rules       *string     `json:"rules" dynamodbav:"rules"`
	Shelf       *string     `json:"shelf" dynamodbav:"shelf"`
	Difficulty  *string     `json:"difficulty" dynamodbav:"difficulty"`
	Image       *string     `json:"image" dynamodbav:"image"`
}

type RawPlayers struct {
	Min any `json:"min" dynamodbav:"min"`
	Max any `json:"max" dynamodbav:"max"`
}

// DecodeRecords parses a JSON array of catalog entries.
func DecodeRecords(r io.Reader) ([]RawRecord, error) {
	var raw []RawRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return raw, nil
}

// Normalize converts a raw entry into a GameRecord, filling defaults for
// anything missing or malformed.
func Normalize(raw RawRecord) GameRecord {
	rec := GameRecord{
		Title:       str(raw.Title),
		Genre:       str(raw.Genre),
		Description: str(raw.Description),
		Rules:       str(raw.Rules),
		Shelf:       str(raw.Shelf),
		Difficulty:  str(raw.Difficulty),
		Image:       str(raw.Image),
	}

	if id, ok := number(raw.ID); ok {
		rec.ID = int(id)
	}
	if rating, ok := number(raw.Rating); ok {
		rec.Rating = rating
	}
	if playtime, ok := number(raw.Playtime); ok {
		rec.Playtime = int(math.Round(playtime))
		rec.PlaytimeKnown = true
	}
	if raw.Players != nil {
		if lo, ok := number(raw.Players.Min); ok {
			rec.Players.Min = int(lo)
		}
		if hi, ok := number(raw.Players.Max); ok {
			rec.Players.Max = int(hi)
		}
	}

	return rec
}

// NormalizeAll normalizes every raw entry. The result is never nil.
func NormalizeAll(raw []RawRecord) []GameRecord {
	records := make([]GameRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, Normalize(r))
	}
	return records
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// number reports whether v holds a finite number. Booleans do not count,
// and numeric strings are accepted.
func number(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, false
		}
		v = t
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
