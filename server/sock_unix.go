//go:build linux || darwin

package server

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/legamerdc/netra/internal/netutil"
)

// 监听队列长度
const listenBacklog = 5

// openListener 创建阻塞式 IPv4 监听 socket：
// REUSEADDR 防止异常退出后端口占用，绑定 INADDR_ANY。
func openListener(port int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("server: socket: %w", err)
	}
	_ = netutil.SetReuseAddr(fd, true)
	sa := &unix.SockaddrInet4{Port: port} // Addr 零值即 INADDR_ANY
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("server: bind port %d: %w", port, err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("server: listen: %w", err)
	}
	return fd, nil
}

func closeFD(fd int) { _ = unix.Close(fd) }
