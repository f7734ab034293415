package grid

// ColorClass selects which palette entry a cell is painted with.
type ColorClass uint8

const (
	Primary ColorClass = iota
	Accent
	Blend
)

func (c ColorClass) String() string {
	switch c {
	case Accent:
		return "accent"
	case Blend:
		return "blend"
	default:
		return "primary"
	}
}

// ColorMix is the target share of each class. Primary takes what is left
// after Accent and Blend.
type ColorMix struct {
	Accent float64
	Blend  float64
}

// DefaultMix is roughly 70% primary, 20% accent, 10% blend.
func DefaultMix() ColorMix {
	return ColorMix{Accent: 0.2, Blend: 0.1}
}

const (
	jitterSalt  = 0x9e3779b97f4a7c15
	colorSalt   = 0xbf58476d1ce4e5b9
	clusterSalt = 0x94d049bb133111eb
	glowSalt    = 0xd6e8feb86659fd93

	// Cells are grouped into blocks of clusterRows x clusterCols. A cell
	// takes its block's value with probability clusterShare, so nearby
	// cells tend to agree while the overall mix stays on target.
	clusterRows  = 3
	clusterCols  = 6
	clusterShare = 0.3
)

func (m ColorMix) classify(row, col int, seed uint64) ColorClass {
	v := unit(hash2(row, col, seed^colorSalt))
	if unit(hash2(row, col, seed^clusterSalt)) < clusterShare {
		v = unit(hash2(floorDiv(row, clusterRows), floorDiv(col, clusterCols), seed))
	}

	switch {
	case v >= 1-m.Blend:
		return Blend
	case v >= 1-m.Blend-m.Accent:
		return Accent
	default:
		return Primary
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// hash2 is splitmix64 over the packed coordinates.
func hash2(row, col int, seed uint64) uint64 {
	z := seed ^ (uint64(uint32(int32(row)))<<32 | uint64(uint32(int32(col))))
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// unit maps a hash to [0, 1).
func unit(h uint64) float64 {
	return float64(h>>11) / (1 << 53)
}
