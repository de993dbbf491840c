//go:build linux || darwin

package netutil

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

var ErrUnknownAddr = errors.New("netutil: unknown sockaddr family")

func SetReuseAddr(fd int, enable bool) error {
	v := 0
	if enable {
		v = 1
	}
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, v)
}

// SockaddrString 把 sockaddr 格式化为 "IP:PORT"
func SockaddrString(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return fmt.Sprintf("%s:%d", net.IP(a.Addr[:]).String(), a.Port)
	case *unix.SockaddrInet6:
		return fmt.Sprintf("[%s]:%d", net.IP(a.Addr[:]).String(), a.Port)
	}
	return "unknown"
}

// PeerString 通过 getpeername 解析 fd 的对端地址；
// fd 无效或未连接时返回错误
func PeerString(fd int) (string, error) {
	sa, err := unix.Getpeername(fd)
	if err != nil {
		return "", fmt.Errorf("netutil: getpeername fd=%d: %w", fd, err)
	}
	s := SockaddrString(sa)
	if s == "unknown" {
		return "", ErrUnknownAddr
	}
	return s, nil
}

// LocalPort 通过 getsockname 取 fd 实际绑定的本地端口
func LocalPort(fd int) (int, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, fmt.Errorf("netutil: getsockname fd=%d: %w", fd, err)
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return a.Port, nil
	case *unix.SockaddrInet6:
		return a.Port, nil
	}
	return 0, ErrUnknownAddr
}
