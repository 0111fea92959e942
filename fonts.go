package pdfoutline

import "sort"

// SizeFrequency counts how often a dominant line font size occurs.
type SizeFrequency struct {
	Size  float64
	Lines int
	Chars int
}

// Band is a range of font sizes mapped to one strength tier.
type Band struct {
	Tier int
	Min  float64
	Max  float64
}

// FontProfile holds document-wide font statistics. It is built once per document,
// before any line is scored, and is read-only afterwards.
type FontProfile struct {
	// Sizes are the distinct dominant line sizes, ascending.
	Sizes []SizeFrequency

	// BodySize is the size carrying the most characters. It always occurs in the document.
	BodySize float64

	// MaxSize is the largest dominant line size.
	MaxSize float64

	// BoldRatio is the character-weighted bold fraction of the whole document.
	BoldRatio float64

	// Bands map size excess over BodySize to tiers, strongest first. A document with a
	// single size has one degenerate band at the body size.
	Bands []Band

	// MaxLevel caps every outline level derived from this profile.
	MaxLevel int
}

// bandFloors are the lower bounds of each tier as a fraction of the size range above
// body text: the top 5%, the next 15%, the next 30% and the remainder.
var bandFloors = []struct {
	tier  int
	floor float64
}{
	{tier: 4, floor: 0.95},
	{tier: 3, floor: 0.80},
	{tier: 2, floor: 0.50},
	{tier: 1, floor: 0},
}

const bandEpsilon = 1e-9

// BuildFontProfile computes the font statistics of a document from its lines.
func BuildFontProfile(lines []Line, maxLevel int) *FontProfile {
	profile := &FontProfile{MaxLevel: maxLevel}
	if len(lines) == 0 {
		return profile
	}

	index := make(map[float64]int)
	for _, line := range lines {
		i, ok := index[line.FontSize]
		if !ok {
			i = len(profile.Sizes)
			index[line.FontSize] = i
			profile.Sizes = append(profile.Sizes, SizeFrequency{Size: line.FontSize})
		}
		profile.Sizes[i].Lines++
		profile.Sizes[i].Chars += line.RuneCount()
	}

	sort.Slice(profile.Sizes, func(i, j int) bool {
		return profile.Sizes[i].Size < profile.Sizes[j].Size
	})

	// Ascending scan with a strict comparison: ties go to the smaller size
	bestChars := -1
	for _, sf := range profile.Sizes {
		if sf.Chars > bestChars {
			profile.BodySize = sf.Size
			bestChars = sf.Chars
		}
	}
	profile.MaxSize = profile.Sizes[len(profile.Sizes)-1].Size
	profile.BoldRatio = documentBoldRatio(lines)

	sizeRange := profile.MaxSize - profile.BodySize
	if sizeRange <= 0 {
		profile.Bands = []Band{{Tier: 0, Min: profile.BodySize, Max: profile.BodySize}}
		return profile
	}

	upper := profile.MaxSize
	for _, bf := range bandFloors {
		lower := profile.BodySize + bf.floor*sizeRange
		profile.Bands = append(profile.Bands, Band{Tier: bf.tier, Min: lower, Max: upper})
		upper = lower
	}

	return profile
}

func documentBoldRatio(lines []Line) float64 {
	var bold float64
	var total int
	for _, line := range lines {
		n := line.RuneCount()
		bold += line.BoldRatio * float64(n)
		total += n
	}
	if total == 0 {
		return 0
	}
	return bold / float64(total)
}

// BoldIsNorm reports whether at least ratio of the document is set in bold, in which
// case bold carries no heading signal.
func (p *FontProfile) BoldIsNorm(ratio float64) bool {
	return p.BoldRatio >= ratio
}

// Tier maps a font size to its strength tier. Sizes at or below the body size are tier 0.
func (p *FontProfile) Tier(size float64) int {
	sizeRange := p.MaxSize - p.BodySize
	if sizeRange <= 0 || size <= p.BodySize {
		return 0
	}

	excess := (size - p.BodySize) / sizeRange
	for _, bf := range bandFloors {
		if excess >= bf.floor-bandEpsilon {
			return bf.tier
		}
	}
	return 0
}

// MaxTier returns the strongest tier this profile can produce.
func (p *FontProfile) MaxTier() int {
	if len(p.Bands) == 0 {
		return 0
	}
	return p.Bands[0].Tier
}

// Degenerate reports whether the document uses at most one font size.
func (p *FontProfile) Degenerate() bool {
	return len(p.Sizes) <= 1
}
