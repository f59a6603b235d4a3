package vdag

import "io"

func writeUVarint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

func readUVarint(src []byte, pos *int) (uint64, error) {
	var x uint64
	var s uint
	i := *pos
	for {
		if i >= len(src) {
			return 0, io.ErrUnexpectedEOF
		}
		b := src[i]
		i++
		if b < 0x80 {
			if s == 63 && b > 1 {
				return 0, io.ErrUnexpectedEOF
			}
			x |= uint64(b) << s
			break
		}
		x |= uint64(b&0x7F) << s
		s += 7
		if s > 63 {
			return 0, io.ErrUnexpectedEOF
		}
	}
	*pos = i
	return x, nil
}
