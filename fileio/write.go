package fileio

import (
	"fmt"
	"os"
	"sync"

	"github.com/legamerdc/netra/pattern"
)

// WriteFile 是面向单一路径的写引擎。每个操作都持有实例锁、
// 重新打开文件、完成后关闭：实例内严格串行，无内部并发。
type WriteFile struct {
	path string
	mu   sync.Mutex
}

func NewWriteFile(path string) *WriteFile {
	return &WriteFile{path: path}
}

// OverwriteText 截断后整体重写文件内容
func (w *WriteFile) OverwriteText(content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeAll([]byte(content), os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// AppendText 追加到文件末尾，文件不存在则创建
func (w *WriteFile) AppendText(content string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeAll([]byte(content), os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

// OverwriteBinary 截断后整体重写二进制内容
func (w *WriteFile) OverwriteBinary(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeAll(data, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// AppendBinary 追加二进制内容，文件不存在则创建
func (w *WriteFile) AppendBinary(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeAll(data, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

// WriteOriginal 不截断地打开文件（不存在则先建空文件），
// 在 position 处原地覆盖写入 content：不搬动后续字节，
// position+len(content) 超出当前大小时文件被扩展。
func (w *WriteFile) WriteOriginal(content string, position int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.OpenFile(w.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", w.path, err)
	}
	defer f.Close()
	_, err = f.WriteAt([]byte(content), position)
	return err
}

// CountBytesBeforePattern 用 pattern 包从偏移 0 流式定位 pat。
// includePat 为 true 时返回匹配结束处的偏移，否则返回匹配起始偏移。
//
// 未找到时返回 0，与"恰好在偏移 0 命中"无法区分，这是接口的
// 既有怪癖，调用方需要区分时应改用 WriteAfterPatternOrAppend
// 一类自带找到/未找到分支的操作。
func (w *WriteFile) CountBytesBeforePattern(pat []byte, includePat bool) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.Open(w.path)
	if err != nil {
		return 0
	}
	defer f.Close()
	off, ok := pattern.Index(f, pat, includePat)
	if !ok {
		return 0
	}
	return off
}

// WriteAfterPatternOrAppend 定位 pat：找到则丢弃匹配结束处之后的
// 所有内容并紧跟着写入 content（等效于替换 pattern 之后的尾部）；
// 未找到则把 content 追加到文件末尾，若文件最后一个字节不是换行
// 则先补一个换行。
func (w *WriteFile) WriteAfterPatternOrAppend(pat, content []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.OpenFile(w.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", w.path, err)
	}
	defer f.Close()

	end, ok := pattern.Index(f, pat, true)
	if ok {
		if err := f.Truncate(end); err != nil {
			return err
		}
		_, err = f.WriteAt(content, end)
		return err
	}

	st, err := f.Stat()
	if err != nil {
		return err
	}
	size := st.Size()
	if size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return err
		}
		if last[0] != '\n' {
			if _, err := f.WriteAt([]byte{'\n'}, size); err != nil {
				return err
			}
			size++
		}
	}
	_, err = f.WriteAt(content, size)
	return err
}

// InsertAfterPos 让文件恰好增长 length 字节：pos 及其后的所有字节
// 整体后移 length，腾出的窗口填入 content；content 过长则截断到
// length，过短则以零字节补齐。pos 超过当前文件大小时失败。
func (w *WriteFile) InsertAfterPos(content []byte, pos, length int64) error {
	if length < 0 {
		return ErrNegativeLength
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.OpenFile(w.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", w.path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	size := st.Size()
	if pos > size {
		return ErrPastEnd
	}
	if length == 0 {
		return nil
	}

	// 从尾部向 pos 方向分块后移，避免整文件载入内存
	buf := make([]byte, shiftChunk)
	for off := size; off > pos; {
		n := int64(shiftChunk)
		if off-pos < n {
			n = off - pos
		}
		if _, err := f.ReadAt(buf[:n], off-n); err != nil {
			return err
		}
		if _, err := f.WriteAt(buf[:n], off-n+length); err != nil {
			return err
		}
		off -= n
	}

	window := make([]byte, length)
	copy(window, content)
	_, err = f.WriteAt(window, pos)
	return err
}

// OverwriteAtPos 原地覆盖，文件大小不变：从 pos 起写入
// min(length, size-pos) 字节，content 不足 length 的部分以零字节
// 补齐，超出文件末尾的部分被裁掉。pos 超过当前文件大小时失败。
func (w *WriteFile) OverwriteAtPos(content []byte, pos, length int64) error {
	if length < 0 {
		return ErrNegativeLength
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	f, err := os.OpenFile(w.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", w.path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	size := st.Size()
	if pos > size {
		return ErrPastEnd
	}
	n := length
	if size-pos < n {
		n = size - pos
	}
	if n == 0 {
		return nil
	}
	window := make([]byte, length)
	copy(window, content)
	_, err = f.WriteAt(window[:n], pos)
	return err
}

func (w *WriteFile) writeAll(data []byte, flag int) error {
	f, err := os.OpenFile(w.path, flag, 0o644)
	if err != nil {
		return fmt.Errorf("fileio: open %s: %w", w.path, err)
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}
