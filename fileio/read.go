package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/legamerdc/netra/pattern"
)

// ReadFile 是面向单一路径的读引擎。与 WriteFile 的"每次开关"不同，
// 它维护显式的 Open/Close 生命周期和一个读游标；未打开时首次读取
// 会惰性打开。所有公开操作持有实例锁（串行化范围同样是实例，
// 不是路径）。
type ReadFile struct {
	path string
	mu   sync.Mutex
	f    *os.File
}

func NewReadFile(path string) *ReadFile {
	return &ReadFile{path: path}
}

// Open 打开文件；已打开时先关闭再重新打开
func (r *ReadFile) Open() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f != nil {
		r.f.Close()
		r.f = nil
	}
	return r.open()
}

func (r *ReadFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

func (r *ReadFile) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f != nil
}

// ReadAllText 从当前游标读到文件末尾并返回文本
func (r *ReadFile) ReadAllText() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(); err != nil {
		return "", err
	}
	b, err := io.ReadAll(r.f)
	return string(b), err
}

// ReadAllBinary 从当前游标读到文件末尾并返回原始字节
func (r *ReadFile) ReadAllBinary() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(); err != nil {
		return nil, err
	}
	return io.ReadAll(r.f)
}

// ReadLines 按行切分（行终止符被剥去），返回有序的行序列
func (r *ReadFile) ReadLines() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(); err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(r.f)
	sc.Buffer(make([]byte, 0, pattern.ChunkSize), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// ReadBytes 从当前游标读取最多 count 字节；
// 到达文件末尾时返回更少的字节，不报错
func (r *ReadFile) ReadBytes(count int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(); err != nil {
		return nil, err
	}
	buf := make([]byte, count)
	n, err := io.ReadFull(r.f, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return buf[:n], err
}

// ReadBytesFrom 绝对偏移读取：count 为 0 表示读到文件末尾；
// pos 不小于文件大小时返回空；count 超出可读范围时被裁剪。
// 读取后游标停在本次读取的结束处。
func (r *ReadFile) ReadBytesFrom(pos, count int64) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(); err != nil {
		return nil, err
	}
	size := r.GetFileSize()
	if pos >= size {
		return nil, nil
	}
	want := count
	if count == 0 || pos+count > size {
		want = size - pos
	}
	if _, err := r.f.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, want)
	n, err := io.ReadFull(r.f, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}
	return buf[:n], err
}

// GetBytesBefore 把游标拨回 0 后用 pattern 包流式定位 marker。
// 未找到返回 0，与偏移 0 处命中无法区分（与写引擎
// CountBytesBeforePattern 相同的既有怪癖）。
func (r *ReadFile) GetBytesBefore(marker []byte, includeMarker bool) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensure(); err != nil {
		return 0
	}
	if _, err := r.f.Seek(0, io.SeekStart); err != nil {
		return 0
	}
	off, ok := pattern.Index(r.f, marker, includeMarker)
	if !ok {
		return 0
	}
	return off
}

// FileExists 基于 stat 判断文件是否存在，与打开状态无关
func (r *ReadFile) FileExists() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// GetFileSize 基于 stat 取文件大小，不存在时返回 0
func (r *ReadFile) GetFileSize() int64 {
	st, err := os.Stat(r.path)
	if err != nil {
		return 0
	}
	return st.Size()
}

// Reset 把读游标拨回偏移 0，不关闭文件
func (r *ReadFile) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f != nil {
		_, _ = r.f.Seek(0, io.SeekStart)
	}
}

// ensure 惰性打开；调用方需持有 r.mu
func (r *ReadFile) ensure() error {
	if r.f != nil {
		return nil
	}
	return r.open()
}

func (r *ReadFile) open() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", r.path, err)
	}
	r.f = f
	return nil
}
