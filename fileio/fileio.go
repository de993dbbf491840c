// Package fileio 提供对单个文件路径的字节级读写引擎：
// 整体覆盖/追加、按位写入、带位移的插入、原地覆盖，
// 以及基于 pattern 包的流式子串定位。
//
// 串行化范围是"对象实例"而不是"路径"：同一实例上的所有操作
// 互斥执行；两个不同实例指向同一路径时并不互斥，跨进程更没有
// 任何锁。需要 per-path 排他时由调用方自行保证。
package fileio

import "errors"

var (
	// ErrPastEnd 写入起始位置超过当前文件大小
	ErrPastEnd = errors.New("fileio: position beyond end of file")

	// ErrNegativeLength 长度参数为负
	ErrNegativeLength = errors.New("fileio: negative length")
)

// 位移拷贝时单次搬运的块大小
const shiftChunk = 64 << 10
