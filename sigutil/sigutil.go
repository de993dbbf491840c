// Package sigutil 提供进程级的信号屏蔽。
package sigutil

import (
	"os/signal"
	"sync"
	"syscall"
)

var ignoreOnce sync.Once

// IgnoreAllSignals 忽略 1..64 的全部可忽略信号
// （KILL/STOP 无法屏蔽，跳过）。幂等，可在任意时机调用，
// 与 server、fileio 之间没有先后顺序要求。
func IgnoreAllSignals() {
	ignoreOnce.Do(func() {
		for i := 1; i <= 64; i++ {
			sig := syscall.Signal(i)
			if sig == syscall.SIGKILL || sig == syscall.SIGSTOP {
				continue
			}
			signal.Ignore(sig)
		}
	})
}
