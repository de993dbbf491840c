package fileio

import (
	"fmt"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstd 编解码器按池复用，避免每次压缩重建上下文

var (
	encoderPool = sync.Pool{New: func() any {
		enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		return enc
	}}
	decoderPool = sync.Pool{New: func() any {
		dec, _ := zstd.NewReader(nil)
		return dec
	}}
)

// CompressBytes 压缩内存中的字节块
func CompressBytes(data []byte) []byte {
	enc := encoderPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(data, nil)
	encoderPool.Put(enc)
	return out
}

// DecompressBytes 解压 CompressBytes 的输出
func DecompressBytes(data []byte) ([]byte, error) {
	dec := decoderPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	decoderPool.Put(dec)
	return out, err
}

// CompressFile 把 src 流式压缩到 dst，不把源文件整体载入内存
func CompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("fileio: create %s: %w", dst, err)
	}
	defer out.Close()

	zw, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return err
	}
	if _, err := zw.ReadFrom(in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// DecompressFile 把 zstd 压缩的 src 流式解压到 dst
func DecompressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("fileio: create %s: %w", dst, err)
	}
	defer out.Close()

	zr, err := zstd.NewReader(in)
	if err != nil {
		return err
	}
	defer zr.Close()
	_, err = zr.WriteTo(out)
	return err
}
