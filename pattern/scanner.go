// Package pattern 提供对字节流的分块子串搜索，
// 供 fileio 的读写两侧共用，不要求把数据一次性载入内存。
package pattern

import (
	"bytes"
	"io"
)

// ChunkSize 每次从数据源读取的块大小
const ChunkSize = 4096

// Index 从 r 的起始位置扫描，返回 pat 最早出现的偏移。
// includePat 为 true 时返回 偏移+len(pat)，即匹配结束处。
// 找不到或 pat 为空时返回 (0, false)；空 pattern 永不匹配。
//
// 算法：滚动缓冲逐块追加后用 bytes.Index 搜索；未命中时
// 只保留缓冲末尾 len(pat)-1 字节再读下一块，这是跨块命中
// 所需的最小保留量，跨越块边界的 pattern 一样能找到。
func Index(r io.Reader, pat []byte, includePat bool) (int64, bool) {
	if len(pat) == 0 {
		return 0, false
	}
	var (
		buf   []byte
		base  int64 // buf[0] 在流中的偏移
		chunk = make([]byte, ChunkSize)
	)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			if pos := bytes.Index(buf, pat); pos >= 0 {
				off := base + int64(pos)
				if includePat {
					off += int64(len(pat))
				}
				return off, true
			}
			if keep := len(pat) - 1; len(buf) > keep {
				drop := len(buf) - keep
				buf = buf[drop:]
				base += int64(drop)
			}
		}
		if err != nil {
			return 0, false
		}
	}
}
