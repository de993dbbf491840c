package server

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/legamerdc/netra/internal/netutil"
)

var (
	// ErrRunning 服务器已处于运行状态，重复 Start 直接拒绝
	ErrRunning = errors.New("server: already running")
)

// 单次 Recv 的缓冲大小
const recvBufSize = 1024

// Server 是一个多客户端 TCP 服务器：一个专职 goroutine 负责 accept，
// 注册表在互斥锁保护下记录所有已接入的客户端 socket fd。
//
// 本实现只做"登记"：accept 成功后仅把 fd 放进注册表，不为每个连接
// 启动处理 goroutine。收发由调用方通过 GetClientSockets 拿到 fd 后
// 自行驱动（SendToClient / ReceiveFromClient）。
//
// fd 的生命周期归 Server 所有：调用方不得自行 close 注册表里的 fd，
// Stop 时统一关闭。
type Server struct {
	port      int
	boundPort int

	lfd     int
	running atomic.Bool

	mu      sync.Mutex
	clients []int

	wg sync.WaitGroup

	logger *log.Logger
}

// New 构造未启动的 Server；port 为 0 时由内核分配端口，实际端口见 Port()
func New(port int) *Server {
	return &Server{port: port, lfd: -1, logger: log.Default()}
}

// SetLogger 替换默认 logger；需在 Start 之前调用
func (s *Server) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Start 创建监听 socket（REUSEADDR、绑定所有网卡、backlog=5），
// 然后启动 accept 循环。任一步失败都是终态，由调用方整体重试。
func (s *Server) Start() error {
	if s.running.Load() {
		return ErrRunning
	}
	lfd, err := openListener(s.port)
	if err != nil {
		return err
	}
	s.lfd = lfd
	if p, perr := netutil.LocalPort(lfd); perr == nil {
		s.boundPort = p
	} else {
		s.boundPort = s.port
	}

	s.running.Store(true)
	s.wg.Add(1)
	go s.acceptClients()

	s.logger.Info("server: listening", "port", s.boundPort)
	return nil
}

// Port 返回实际绑定的端口（Start 之前返回构造参数）
func (s *Server) Port() int {
	if s.boundPort != 0 {
		return s.boundPort
	}
	return s.port
}

// acceptClients 在独立 goroutine 中循环 accept；
// 成功则把 fd 登记进注册表并打印对端地址，
// 失败且仍在运行则记录错误继续，已停止则退出。
func (s *Server) acceptClients() {
	defer s.wg.Done()
	for s.running.Load() {
		fd, sa, err := unix.Accept(s.lfd)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if s.running.Load() {
				s.logger.Error("server: accept failed", "err", err)
				continue
			}
			return
		}
		s.mu.Lock()
		s.clients = append(s.clients, fd)
		s.mu.Unlock()
		s.logger.Info("server: client connected", "peer", netutil.SockaddrString(sa), "fd", fd)
	}
}

// SendToClient 对指定客户端做一次尽力而为的写入：
// 不循环保证全量送达，不报告写入字节数，错误直接丢弃。
func (s *Server) SendToClient(fd int, msg []byte) {
	_, _ = unix.Write(fd, msg)
}

// ReceiveFromClient 对指定客户端做单次接收。
// blocking 为 true 时挂起调用方直到有数据或对端关闭；
// 为 false 时立即返回当前可读的数据（可能为空）。
//
// 返回 nil 既可能是"暂时没有数据"（非阻塞），也可能是"对端已断开"
// （零长度接收），调用方无法仅凭返回值区分这两种情况。
func (s *Server) ReceiveFromClient(fd int, blocking bool) []byte {
	buf := make([]byte, recvBufSize)
	flags := 0
	if !blocking {
		flags = unix.MSG_DONTWAIT
	}
	n, _, err := unix.Recvfrom(fd, buf, flags)
	if err != nil || n <= 0 {
		return nil
	}
	return buf[:n]
}

// GetClientSockets 返回注册表的快照副本；
// 返回后随时可能因新连接接入而过期
func (s *Server) GetClientSockets() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.clients))
	copy(out, s.clients)
	return out
}

// GetClientIPAndPort 通过 getpeername 解析客户端地址，格式 "IP:PORT"
func (s *Server) GetClientIPAndPort(fd int) (string, error) {
	return netutil.PeerString(fd)
}

// Stop 停止服务器：清运行标志，关闭监听 socket 唤醒 accept，
// 加锁关闭并清空所有客户端 fd，最后等待 accept goroutine 退出。
// 对已停止的服务器调用是无操作。
func (s *Server) Stop() {
	if !s.running.Swap(false) {
		return
	}
	if s.lfd >= 0 {
		// 仅 close 不能可靠唤醒阻塞中的 accept，先 shutdown
		_ = unix.Shutdown(s.lfd, unix.SHUT_RDWR)
		closeFD(s.lfd)
	}
	s.mu.Lock()
	for _, fd := range s.clients {
		closeFD(fd)
	}
	s.clients = nil
	s.mu.Unlock()
	s.wg.Wait()
	s.lfd = -1
	s.logger.Info("server: stopped")
}
