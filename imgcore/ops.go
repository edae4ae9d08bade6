package imgcore

import (
	"github.com/cubeimage/engine/diag"
	"github.com/cubeimage/engine/format"
)

// OpMask is the operation bitmask applied to a single face by Transform.
// Multiple bits may be combined; per spec §6 the low 16 bits of the wire
// encoding hold this mask and bits 16..18 hold the face index, with
// 0xFFFFFFFF terminating a variadic list. This module instead takes an
// ordered slice of Op values, per design note "replace with an ordered
// sequence of (face, op_mask) values".
type OpMask uint16

const (
	Rot90 OpMask = 1 << iota
	Rot180
	Rot270
	FlipX
	FlipY
)

// Op is one entry of an in-place transform request: apply Mask to face
// Face. Ops within a single Transform call apply left to right.
type Op struct {
	Face int
	Mask OpMask
}

// Transform applies each op in ops, in order, to im in place. Rot90/180/270
// require a square face (width == height); when that invariant is
// violated, the rotation is skipped and reported through w rather than
// treated as fatal, per spec §4.4/§7 (UnsupportedLayout is a warning, not
// an error).
func Transform(im *Image, w diag.Warnings, ops ...Op) {
	for _, op := range ops {
		if op.Face < 0 || op.Face >= im.NumFaces {
			continue
		}
		applyOp(im, w, op)
	}
}

func applyOp(im *Image, w diag.Warnings, op Op) {
	bpp := format.BytesPerPixel(im.Format)
	offs := MipOffsets(im)

	square := im.Width == im.Height
	needsSquare := op.Mask&(Rot90|Rot180|Rot270) != 0

	if needsSquare && !square {
		diag.Warn(w, diag.KindUnsupportedLayout, "rotation requires a square image, got %dx%d", im.Width, im.Height)
		return
	}

	for m := 0; m < im.NumMips; m++ {
		mw, mh, _ := MipSize(im, m)
		base := offs[op.Face][m]
		buf := im.Data[base : base+mw*mh*bpp]

		if op.Mask&Rot90 != 0 {
			rotate90(buf, mw, mh, bpp)
		}
		if op.Mask&Rot180 != 0 {
			rotate180(buf, mw, mh, bpp)
		}
		if op.Mask&Rot270 != 0 {
			rotate270(buf, mw, mh, bpp)
		}
		if op.Mask&FlipX != 0 {
			flipRows(buf, mw, mh, bpp)
		}
		if op.Mask&FlipY != 0 {
			flipColumns(buf, mw, mh, bpp)
		}
	}
}

func pixelIdx(buf []byte, w, bpp, x, y int) []byte {
	off := (y*w + x) * bpp
	return buf[off : off+bpp]
}

func swapPixels(buf []byte, w, bpp, x0, y0, x1, y1 int) {
	a := pixelIdx(buf, w, bpp, x0, y0)
	b := pixelIdx(buf, w, bpp, x1, y1)
	var tmp [16]byte
	copy(tmp[:bpp], a)
	copy(a, b)
	copy(b, tmp[:bpp])
}

// rotate180 reverses the pixel order entirely: (x,y) <-> (n-1-x, n-1-y).
func rotate180(buf []byte, w, h, bpp int) {
	n := w * h
	for i := 0; i < n/2; i++ {
		a := buf[i*bpp : i*bpp+bpp]
		bIdx := n - 1 - i
		b := buf[bIdx*bpp : bIdx*bpp+bpp]
		var tmp [16]byte
		copy(tmp[:bpp], a)
		copy(a, b)
		copy(b, tmp[:bpp])
	}
}

// rotate90 rotates a square image 90 degrees clockwise in place, ring by
// ring, cycling each group of four corresponding pixels (top, right,
// bottom, left) one position.
func rotate90(buf []byte, w, h, bpp int) {
	n := w
	for layer := 0; layer < n/2; layer++ {
		first := layer
		last := n - 1 - layer
		for i := first; i < last; i++ {
			offset := i - first

			top := pixelIdx(buf, n, bpp, i, first)
			var topSave [16]byte
			copy(topSave[:bpp], top)

			left := pixelIdx(buf, n, bpp, first, last-offset)
			copy(top, left)

			bottom := pixelIdx(buf, n, bpp, last-offset, last)
			copy(left, bottom)

			right := pixelIdx(buf, n, bpp, last, i)
			copy(bottom, right)

			copy(right, topSave[:bpp])
		}
	}
}

// rotate270 rotates a square image 90 degrees counter-clockwise (three
// clockwise rotations, or equivalently one call to rotate90 with the swap
// pattern mirrored).
func rotate270(buf []byte, w, h, bpp int) {
	rotate90(buf, w, h, bpp)
	rotate90(buf, w, h, bpp)
	rotate90(buf, w, h, bpp)
}

// flipRows reverses whole rows top-to-bottom.
func flipRows(buf []byte, w, h, bpp int) {
	for y := 0; y < h/2; y++ {
		y2 := h - 1 - y
		row1 := buf[y*w*bpp : (y+1)*w*bpp]
		row2 := buf[y2*w*bpp : (y2+1)*w*bpp]
		var tmp []byte
		tmp = append(tmp, row1...)
		copy(row1, row2)
		copy(row2, tmp)
	}
}

// flipColumns reverses columns within each row, left-to-right.
func flipColumns(buf []byte, w, h, bpp int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			swapPixels(buf, w, bpp, x, y, w-1-x, y)
		}
	}
}
