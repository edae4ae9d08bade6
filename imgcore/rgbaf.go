package imgcore

import (
	"encoding/binary"
	"math"
)

// f32bits and putF32bits give resize/mip/gamma direct access to an
// RGBA32F pixel's channel c without going through the general
// colorconv.ToRGBA32F/FromRGBA32F dispatch, since those callers already
// know the buffer is RGBA32F.
func f32bits(b []byte, c int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[c*4:]))
}

func putF32bits(b []byte, v [4]float32) {
	for c := 0; c < 4; c++ {
		binary.LittleEndian.PutUint32(b[c*4:], math.Float32bits(v[c]))
	}
}
