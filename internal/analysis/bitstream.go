package analysis

import (
	"fmt"

	"lottolab/domain/draw"
	"lottolab/internal/errors"
)

// Bitstream encodings of a draw history.
const (
	EncodingPresence = "presence" // 45-bit presence vector per draw
	EncodingParity   = "parity"   // one parity bit per drawn number
	EncodingBinary   = "binary"   // 6-bit big-endian encoding per number
)

// BitSequence encodes the draw history into a single bitstream with the
// chosen encoding.
func BitSequence(history draw.History, encoding string) ([]int, error) {
	switch encoding {
	case EncodingPresence:
		bits := make([]int, 0, len(history)*draw.TotalBalls)
		for _, rec := range history {
			present := rec.NumberSet()
			for n := 1; n <= draw.TotalBalls; n++ {
				if present[n] {
					bits = append(bits, 1)
				} else {
					bits = append(bits, 0)
				}
			}
		}
		return bits, nil
	case EncodingParity:
		bits := make([]int, 0, len(history)*draw.BallsPerDraw)
		for _, rec := range history {
			for _, n := range rec.Numbers {
				bits = append(bits, n%2)
			}
		}
		return bits, nil
	case EncodingBinary:
		bits := make([]int, 0, len(history)*draw.BallsPerDraw*6)
		for _, rec := range history {
			for _, n := range rec.Numbers {
				for shift := 5; shift >= 0; shift-- {
					bits = append(bits, (n>>shift)&1)
				}
			}
		}
		return bits, nil
	default:
		return nil, errors.ValidationError(fmt.Sprintf("unsupported bit encoding %q (want presence, parity or binary)", encoding))
	}
}
