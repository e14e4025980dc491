package fragment

// compactAlphabet is the 52-symbol set the compact renaming counter cycles
// through: lowercase first, then uppercase, matching the teacher's
// preference for short ASCII identifiers over a denser but less
// minifier-friendly symbol set.
const compactAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CompactNamer assigns short identifiers in counting order: a, b, c, ...,
// Z, aa, ab, .... It is the bijective-base-52 analogue of a spreadsheet
// column name. Not safe for concurrent use; each fragment pass should
// build its own CompactNamer.
type CompactNamer struct {
	next int
}

// NewCompactNamer returns a namer whose first call to Next yields "a".
func NewCompactNamer() *CompactNamer {
	return &CompactNamer{}
}

// Next returns the next name in sequence.
func (n *CompactNamer) Next() string {
	name := toBijectiveBase52(n.next)
	n.next++
	return name
}

func toBijectiveBase52(n int) string {
	const base = len(compactAlphabet)
	var digits []byte
	for {
		digits = append(digits, compactAlphabet[n%base])
		n = n/base - 1
		if n < 0 {
			break
		}
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
