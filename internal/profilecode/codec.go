// Package profilecode serializes listener profiles to and from the
// fixed-width 37-character profile code and derives the completeness
// confidence used by the interview gate.
//
// Code layout: one version character, a '-' separator, then 35 data
// characters. Values are uppercase base-36; a field whose value is
// unknown is written as a run of the sentinel character across the
// field's full width.
package profilecode

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/auralis-music/auralis-api/internal/models"
)

const (
	// Version is the current code version character.
	Version = '1'

	// CodeLength is the total length of an encoded profile code.
	CodeLength = 37

	// dataLength is the number of characters after "<version>-".
	dataLength = 35

	// sentinel marks an unknown field. Lowercase keeps it outside the
	// uppercase base-36 value alphabet.
	sentinel = 'z'

	base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// fieldSpec declares one encoded field: its name, character width and
// inclusive maximum. Field order matches models.Profile.Fields().
type fieldSpec struct {
	name  string
	width int
	max   int
}

var fieldSpecs = []fieldSpec{
	{"style_familiarity", 2, models.MaxFamiliarity},
	{"track_exposure", 2, models.MaxFamiliarity},
	{"recency", 1, models.MaxScale},
	{"mellow", 1, models.MaxScale},
	{"sophisticated", 1, models.MaxScale},
	{"intense", 1, models.MaxScale},
	{"contemporary", 1, models.MaxScale},
	{"unpretentious", 1, models.MaxScale},
	{"tempo", 1, models.MaxScale},
	{"complexity", 1, models.MaxScale},
	{"mode", 1, models.MaxScale},
	{"predictability", 1, models.MaxScale},
	{"consonance", 1, models.MaxScale},
	{"activity", 1, models.MaxActivity},
	{"time_pattern", 1, models.MaxScale},
	{"social_function", 1, models.MaxScale},
	{"environment", 1, models.MaxEnvironment},
	{"current_valence", 1, models.MaxScale},
	{"current_arousal", 1, models.MaxScale},
	{"target_valence", 1, models.MaxScale},
	{"target_arousal", 1, models.MaxScale},
	{"regulation_strategy", 1, models.MaxRegulation},
	{"birth_decade", 1, models.MaxScale},
	{"reminiscence_era", 1, models.MaxScale},
	{"discovery_tolerance", 1, models.MaxScale},
	{"behavioral_openness", 1, models.MaxScale},
	{"musical_training", 1, models.MaxTraining},
	{"self_expertise", 1, models.MaxScale},
	{"openness", 1, models.MaxScale},
	{"extraversion", 1, models.MaxScale},
	{"empathizing_systemizing", 1, models.MaxScale},
	{"cultural_context", 1, models.MaxScale},
	{"lyric_importance", 1, models.MaxScale},
}

// Encode serializes a profile to its 37-character code. Confidence is
// not carried in the code; it is derived again on decode. Encoding a
// value outside its field's declared range fails with an EncodingError
// naming the field, never by silent truncation.
func Encode(p *models.Profile) (string, error) {
	fields := p.Fields()
	if len(fields) != len(fieldSpecs) {
		return "", fmt.Errorf("profilecode: profile has %d fields, codec expects %d", len(fields), len(fieldSpecs))
	}

	var b strings.Builder
	b.Grow(CodeLength)
	b.WriteByte(Version)
	b.WriteByte('-')

	for i, spec := range fieldSpecs {
		v := *fields[i]
		if v == models.Unknown {
			for range spec.width {
				b.WriteByte(sentinel)
			}
			continue
		}
		if v < 0 || v > spec.max {
			return "", &EncodingError{Field: spec.name, Value: v, Max: spec.max}
		}
		b.WriteString(encodeBase36(v, spec.width))
	}
	return b.String(), nil
}

// Decode parses a profile code back into a profile. It is the exact
// inverse of Encode for every in-range field; a sentinel run decodes to
// Unknown, never to zero. Confidence is recomputed from the decoded
// fields.
func Decode(code string) (*models.Profile, error) {
	if len(code) != CodeLength {
		return nil, &FormatError{Reason: fmt.Sprintf("length %d, want %d", len(code), CodeLength)}
	}
	if code[0] != Version {
		return nil, &FormatError{Reason: fmt.Sprintf("unsupported version %q", code[0])}
	}
	if code[1] != '-' {
		return nil, &FormatError{Reason: "missing separator"}
	}

	p := models.NewProfile()
	fields := p.Fields()

	data := code[2:]
	pos := 0
	for i, spec := range fieldSpecs {
		raw := data[pos : pos+spec.width]
		pos += spec.width

		if strings.ContainsRune(raw, sentinel) {
			if raw != strings.Repeat(string(sentinel), spec.width) {
				return nil, &FormatError{Reason: fmt.Sprintf("field %s: partial sentinel %q", spec.name, raw)}
			}
			*fields[i] = models.Unknown
			continue
		}

		v, err := decodeBase36(raw)
		if err != nil {
			return nil, &FormatError{Reason: fmt.Sprintf("field %s: %v", spec.name, err)}
		}
		if v > spec.max {
			return nil, &FormatError{Reason: fmt.Sprintf("field %s: value %d exceeds max %d", spec.name, v, spec.max)}
		}
		*fields[i] = v
	}

	p.Confidence = CalculateConfidence(p)
	return p, nil
}

func encodeBase36(v, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = base36[v%36]
		v /= 36
	}
	return string(buf)
}

func decodeBase36(s string) (int, error) {
	v := 0
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(base36, s[i])
		if d < 0 {
			return 0, fmt.Errorf("invalid character %q", s[i])
		}
		v = v*36 + d
	}
	return v, nil
}

// Confidence weights. Presence of a field contributes its weight; the
// secondary set accrues one point per known field up to its cap. The
// sum of all weights is exactly models.MaxScale, which keeps the
// function monotonic in field presence and bounded without clipping.
const (
	confStyleFamiliarity = 8
	confActivity         = 6
	confMusicDimension   = 1 // x5
	confDiscovery        = 4
	confMoodValence      = 2
	confMoodArousal      = 2
	confBirthDecade      = 3
	confSecondaryCap     = 5
)

// CalculateConfidence scores how complete a profile is, 0-35. Only the
// presence of fields matters, never their values, so merging any new
// answer into a profile can only raise the result.
func CalculateConfidence(p *models.Profile) int {
	known := func(v int) bool { return v != models.Unknown }

	score := 0
	if known(p.StyleFamiliarity) {
		score += confStyleFamiliarity
	}
	if known(p.Activity) {
		score += confActivity
	}
	for _, v := range []int{p.Mellow, p.Sophisticated, p.Intense, p.Contemporary, p.Unpretentious} {
		if known(v) {
			score += confMusicDimension
		}
	}
	if known(p.DiscoveryTolerance) {
		score += confDiscovery
	}
	if known(p.CurrentValence) {
		score += confMoodValence
	}
	if known(p.CurrentArousal) {
		score += confMoodArousal
	}
	if known(p.BirthDecade) {
		score += confBirthDecade
	}

	secondary := 0
	for _, v := range []int{p.Tempo, p.Complexity, p.Mode, p.SocialFunction, p.Environment} {
		if known(v) {
			secondary++
		}
	}
	if secondary > confSecondaryCap {
		secondary = confSecondaryCap
	}
	score += secondary

	if score > models.MaxScale {
		score = models.MaxScale
	}
	return score
}

// embedMarker is what EmbedProfileCode writes; extraction also accepts
// the PROFILE: prefix and flexible whitespace after the colon.
const embedMarker = "MPC: "

var codePattern = regexp.MustCompile(`(?:MPC|PROFILE):\s*([0-9A-Z]-[0-9A-Zz]{35})`)

// ExtractProfileCode locates an embedded profile code inside free text.
// It returns the bare code, or "" when no marker-prefixed code is found.
func ExtractProfileCode(text string) string {
	m := codePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// EmbedProfileCode appends a marker-prefixed code to arbitrary text,
// e.g. a playlist description, so the profile can be recovered later
// with ExtractProfileCode.
func EmbedProfileCode(text, code string) string {
	if text == "" {
		return embedMarker + code
	}
	return text + "\n\n" + embedMarker + code
}
