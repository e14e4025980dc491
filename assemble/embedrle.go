package assemble

import (
	"encoding/binary"
	"strings"
)

// rle85Alphabet mirrors the 85-character alphabet the loader's decoder
// expects: every printable ASCII byte in [41,92) and [93,126], skipping
// the backslash at 92 for the same quoting reason W64 skips it.
var rle85Alphabet = buildRLE85Alphabet()

func buildRLE85Alphabet() [85]byte {
	var a [85]byte
	i := 0
	for c := 41; c < 92; c++ {
		a[i] = byte(c)
		i++
	}
	for c := 93; c <= 126; c++ {
		a[i] = byte(c)
		i++
	}
	return a
}

const (
	rleWindowSize = 4096
	rleMinMatch   = 3
	rleMaxMatch   = 273
)

type rleToken struct {
	isMatch bool
	dist    int
	length  int
	lit     byte
}

// EncodeRLE85 compresses data with a small LZ77 variant (12-bit window,
// 3..273 byte matches), prepends the decoded total length as a 4-byte
// big-endian header, and packs the result into base-85 text, for modules
// large enough that W64's flat 4-for-3 expansion costs more than the RLE
// pass saves.
func EncodeRLE85(data []byte) string {
	rle := rleCompress(data)
	payload := make([]byte, 4+len(rle))
	binary.BigEndian.PutUint32(payload[0:4], uint32(len(data)))
	copy(payload[4:], rle)
	return base85Encode(payload)
}

func rleCompress(data []byte) []byte {
	tokens := rleTokenize(data)

	var out []byte
	for i := 0; i < len(tokens); i += 8 {
		end := i + 8
		if end > len(tokens) {
			end = len(tokens)
		}
		group := tokens[i:end]

		var tag byte
		var body []byte
		for bit, t := range group {
			if !t.isMatch {
				body = append(body, t.lit)
				continue
			}
			tag |= 1 << uint(bit)
			dist := t.dist - 1
			if t.length <= 17 {
				lenNib := t.length - rleMinMatch
				body = append(body, byte(lenNib<<4)|byte((dist>>8)&0x0F), byte(dist&0xFF))
			} else {
				extra := t.length - 18
				body = append(body, byte(0x0F<<4)|byte((dist>>8)&0x0F), byte(dist&0xFF), byte(extra))
			}
		}
		out = append(out, tag)
		out = append(out, body...)
	}
	return out
}

func rleTokenize(data []byte) []rleToken {
	var tokens []rleToken
	table := make(map[uint32]int)
	n := len(data)

	i := 0
	for i < n {
		bestLen, bestDist := 0, 0
		if i+rleMinMatch <= n {
			key := hash3(data[i:])
			if pos, ok := table[key]; ok {
				dist := i - pos
				if dist > 0 && dist <= rleWindowSize {
					l := matchLen(data, pos, i, n)
					if l >= rleMinMatch {
						bestLen, bestDist = l, dist
					}
				}
			}
			table[key] = i
		}

		if bestLen >= rleMinMatch {
			tokens = append(tokens, rleToken{isMatch: true, dist: bestDist, length: bestLen})
			i += bestLen
		} else {
			tokens = append(tokens, rleToken{lit: data[i]})
			i++
		}
	}
	return tokens
}

func hash3(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func matchLen(data []byte, pos, i, n int) int {
	max := n - i
	if max > rleMaxMatch {
		max = rleMaxMatch
	}
	l := 0
	for l < max && data[pos+l] == data[i+l] {
		l++
	}
	return l
}

// base85Encode packs data 4 bytes at a time into 5-character groups,
// dropping trailing characters from a short final group per the
// Ascii85 partial-tail convention (pad bytes with zero before encoding,
// keep only the first n+1 characters for an n-byte tail).
func base85Encode(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 4 {
		var chunk [4]byte
		n := copy(chunk[:], data[i:])
		v := uint32(chunk[0])<<24 | uint32(chunk[1])<<16 | uint32(chunk[2])<<8 | uint32(chunk[3])
		var digits [5]byte
		for d := 4; d >= 0; d-- {
			digits[d] = rle85Alphabet[v%85]
			v /= 85
		}
		b.Write(digits[:n+1])
	}
	return b.String()
}
