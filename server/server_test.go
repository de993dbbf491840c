//go:build linux || darwin

package server

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	s := New(0)
	require.NoError(t, s.Start())
	t.Cleanup(s.Stop)
	return s
}

func dial(t *testing.T, s *Server) net.Conn {
	t.Helper()
	c, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", s.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestStartStopWithoutClients(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Start())
	require.NotZero(t, s.Port())

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not terminate the accept goroutine in time")
	}
	// 幂等：重复 Stop 是无操作
	s.Stop()
}

func TestStartTwice(t *testing.T) {
	s := startServer(t)
	require.ErrorIs(t, s.Start(), ErrRunning)
}

func TestStartPortInUse(t *testing.T) {
	s := startServer(t)
	dup := New(s.Port())
	require.Error(t, dup.Start())
}

func TestRegistryTracksClients(t *testing.T) {
	s := startServer(t)

	const n = 8
	for i := 0; i < n; i++ {
		dial(t, s)
	}
	require.Eventually(t, func() bool {
		return len(s.GetClientSockets()) == n
	}, 3*time.Second, 10*time.Millisecond)

	// 快照无重复
	seen := map[int]bool{}
	for _, fd := range s.GetClientSockets() {
		require.False(t, seen[fd])
		seen[fd] = true
	}
}

func TestSendToClient(t *testing.T) {
	s := startServer(t)
	c := dial(t, s)

	require.Eventually(t, func() bool {
		return len(s.GetClientSockets()) == 1
	}, 3*time.Second, 10*time.Millisecond)
	fd := s.GetClientSockets()[0]

	s.SendToClient(fd, []byte("ping"))
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	n, err := c.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf[:n]))
}

func TestReceiveFromClient(t *testing.T) {
	s := startServer(t)
	c := dial(t, s)

	require.Eventually(t, func() bool {
		return len(s.GetClientSockets()) == 1
	}, 3*time.Second, 10*time.Millisecond)
	fd := s.GetClientSockets()[0]

	// 非阻塞：暂无数据立即返回 nil
	require.Nil(t, s.ReceiveFromClient(fd, false))

	// 阻塞：客户端稍后写入，接收方被唤醒
	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = c.Write([]byte("hello"))
	}()
	data := s.ReceiveFromClient(fd, true)
	require.Equal(t, "hello", string(data))

	// 非阻塞在数据到达后同样能取到
	_, err := c.Write([]byte("more"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return string(s.ReceiveFromClient(fd, false)) == "more"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReceiveFromDisconnectedClient(t *testing.T) {
	s := startServer(t)
	c := dial(t, s)

	require.Eventually(t, func() bool {
		return len(s.GetClientSockets()) == 1
	}, 3*time.Second, 10*time.Millisecond)
	fd := s.GetClientSockets()[0]

	c.Close()
	// 对端断开表现为零长度接收，返回 nil，与"暂无数据"不可区分
	require.Eventually(t, func() bool {
		return s.ReceiveFromClient(fd, true) == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGetClientIPAndPort(t *testing.T) {
	s := startServer(t)
	c := dial(t, s)

	require.Eventually(t, func() bool {
		return len(s.GetClientSockets()) == 1
	}, 3*time.Second, 10*time.Millisecond)
	fd := s.GetClientSockets()[0]

	peer, err := s.GetClientIPAndPort(fd)
	require.NoError(t, err)
	require.Equal(t, c.LocalAddr().String(), peer)

	// 无效 fd 返回错误
	_, err = s.GetClientIPAndPort(-1)
	require.Error(t, err)
}

func TestStopClosesClients(t *testing.T) {
	s := New(0)
	require.NoError(t, s.Start())
	c := dial(t, s)

	require.Eventually(t, func() bool {
		return len(s.GetClientSockets()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	s.Stop()
	require.Empty(t, s.GetClientSockets())

	// 服务端关闭 fd 后，客户端读到 EOF 或复位
	_ = c.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err := c.Read(buf)
	require.Error(t, err)
}
