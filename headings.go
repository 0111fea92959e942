package pdfoutline

import (
	"cmp"
	"math"
	"regexp"
	"strings"
)

// ScoringConfig holds the weights of the heading-strength score.
type ScoringConfig struct {
	// TierWeight is added per font-size tier above body text (the largest signal)
	TierWeight float64 `yaml:"tier_weight"`

	// BoldBonus is added when at least BoldRatio of the characters are bold, unless
	// at least BoldNormRatio of the whole document is bold
	BoldBonus     float64 `yaml:"bold_bonus"`
	BoldRatio     float64 `yaml:"bold_ratio"`
	BoldNormRatio float64 `yaml:"bold_norm_ratio"`

	// PatternBonus is added for a numbering match, scaled by grammar priority
	PatternBonus float64 `yaml:"pattern_bonus"`

	// IsolationBonus is added when the gap before the line exceeds
	// IsolationGapRatio times its font size
	IsolationBonus    float64 `yaml:"isolation_bonus"`
	IsolationGapRatio float64 `yaml:"isolation_gap_ratio"`

	// LongLinePenalty is subtracted when the line has more than LongLineRatio
	// characters per point of font size
	LongLinePenalty float64 `yaml:"long_line_penalty"`
	LongLineRatio   float64 `yaml:"long_line_ratio"`

	// MinHeadingScore is the body-tier threshold: scores at or below it are body text
	MinHeadingScore float64 `yaml:"min_heading_score"`

	// MinTextLength rejects shorter lines outright
	MinTextLength int `yaml:"min_text_length"`

	// TOCSkipPages is how many pages, counting the one holding a table of contents
	// heading, have their following lines rejected. 0 disables skipping
	TOCSkipPages int `yaml:"toc_skip_pages"`
}

// DefaultScoringConfig returns the default score weights.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		TierWeight:        20,
		BoldBonus:         15,
		BoldRatio:         0.6,
		BoldNormRatio:     0.9,
		PatternBonus:      20,
		IsolationBonus:    10,
		IsolationGapRatio: 1.0,
		LongLinePenalty:   25,
		LongLineRatio:     6.0,
		MinHeadingScore:   20,
		MinTextLength:     3,
		TOCSkipPages:      2,
	}
}

// Rejection reasons reported for lines that never became headings.
const (
	ReasonTooShort     = "too short"
	ReasonNoLetters    = "no letters"
	ReasonTOCEntry     = "dotted table of contents entry"
	ReasonTOCPage      = "table of contents page"
	ReasonVersionEntry = "version table entry"
	ReasonBullet       = "bullet point"
	ReasonPageMargin   = "header/footer region"
	ReasonLowScore     = "low score"
)

// Rejection records a line classified as body text and why.
type Rejection struct {
	Line   Line
	Reason string
	Score  float64
}

var (
	tocEntryPattern   = regexp.MustCompile(`(?:\.\s*){3,}\d+\s*$`)
	tocHeadingPattern = regexp.MustCompile(`(?i)^(?:table\s+of\s+)?contents\s*:?$`)
	bulletPattern     = regexp.MustCompile(`^[•◦▪▫‣●○■□*→\-–]\s`)

	// "1.2  14 March 2023  Revised scope" rows of a document revision table
	versionEntryPattern = regexp.MustCompile(`^\d+\.\d+\s+\d{1,2}\s+\p{L}{3,9}\s+\d{4}\s+\S`)
)

// isTOCHeading reports whether text is a table of contents heading.
func isTOCHeading(text string) bool {
	return tocHeadingPattern.MatchString(strings.TrimSpace(text))
}

// Scorer computes heading strength against a fixed font profile.
type Scorer struct {
	config  ScoringConfig
	profile *FontProfile
}

// NewScorer creates a scorer bound to a document's font profile.
func NewScorer(profile *FontProfile, config ScoringConfig) *Scorer {
	return &Scorer{
		config:  config,
		profile: profile,
	}
}

// Score returns the raw heading strength of a line.
func (s *Scorer) Score(line Line, match *PatternMatch) float64 {
	cfg := s.config
	score := cfg.TierWeight * float64(s.profile.Tier(line.FontSize))

	if line.BoldRatio >= cfg.BoldRatio && !s.profile.BoldIsNorm(cfg.BoldNormRatio) {
		score += cfg.BoldBonus
	}

	if match != nil {
		score += cfg.PatternBonus * match.Weight()
	}

	if line.GapBefore > cfg.IsolationGapRatio*line.FontSize {
		score += cfg.IsolationBonus
	}

	if float64(line.RuneCount()) > cfg.LongLineRatio*line.FontSize {
		score -= cfg.LongLinePenalty
	}

	return score
}

// rejectReason returns why a line can never be a heading, or "" when it may be one.
func (s *Scorer) rejectReason(line Line) string {
	text := strings.TrimSpace(line.Text)
	switch {
	case line.RuneCount() < s.config.MinTextLength:
		return ReasonTooShort
	case !hasLetter(text):
		return ReasonNoLetters
	case tocEntryPattern.MatchString(text):
		return ReasonTOCEntry
	case versionEntryPattern.MatchString(text):
		return ReasonVersionEntry
	case bulletPattern.MatchString(text):
		return ReasonBullet
	}
	return ""
}

// Classify scores a line. The rejection is nil when the line clears the body-tier
// threshold. A table of contents heading is always kept.
func (s *Scorer) Classify(line Line, match *PatternMatch) (HeadingCandidate, *Rejection) {
	if reason := s.rejectReason(line); reason != "" {
		return HeadingCandidate{}, &Rejection{Line: line, Reason: reason}
	}

	score := s.Score(line, match)
	if score <= s.config.MinHeadingScore && !isTOCHeading(line.Text) {
		return HeadingCandidate{}, &Rejection{Line: line, Reason: ReasonLowScore, Score: score}
	}

	return HeadingCandidate{
		Line:  line,
		Match: match,
		Score: score,
		Tier:  s.profile.Tier(line.FontSize),
	}, nil
}

// ScoreLines runs the pattern matcher and the scorer over every line, keeping
// document order in both results. Lines following a table of contents heading are
// rejected up to the end of the TOCSkipPages window.
func ScoreLines(lines []Line, profile *FontProfile, config ScoringConfig) ([]HeadingCandidate, []Rejection) {
	scorer := NewScorer(profile, config)

	var candidates []HeadingCandidate
	var rejected []Rejection
	tocPage := 0
	for _, line := range lines {
		if tocPage > 0 && line.Page < tocPage+config.TOCSkipPages {
			rejected = append(rejected, Rejection{Line: line, Reason: ReasonTOCPage})
			continue
		}

		candidate, rejection := scorer.Classify(line, MatchPattern(line.Text))
		if rejection != nil {
			rejected = append(rejected, *rejection)
			continue
		}
		candidates = append(candidates, candidate)

		if isTOCHeading(line.Text) {
			tocPage = line.Page
		}
	}

	return candidates, rejected
}

// CompareStrength orders candidates strongest first: by score, then by shallower
// numbering (unnumbered last), then by font-size tier.
func CompareStrength(a, b HeadingCandidate) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(depthKey(a), depthKey(b)); c != 0 {
		return c
	}
	return cmp.Compare(b.Tier, a.Tier)
}

func depthKey(c HeadingCandidate) int {
	if c.Match == nil {
		return math.MaxInt
	}
	return c.Match.Depth
}
