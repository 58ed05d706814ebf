// Package instance 单实例锁与本地 IPC 通知
package instance

import (
	"fmt"
	"net"
	"strings"
	"time"

	"aipaste-wails/internal/logger"
)

const (
	// DefaultAddr 本地 IPC 端口
	DefaultAddr = "127.0.0.1:19528"
	// MsgShowToast 通知已运行实例显示提示
	MsgShowToast = "SHOW_TOAST"

	dialTimeout = time.Second
	maxMessage  = 64
)

// Server IPC 服务器
type Server struct {
	listener net.Listener
	done     chan struct{}
}

// Listen 启动 IPC 服务器，每收到一条消息调用一次 handler
func Listen(addr string, handler func(msg string)) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("IPC 服务器启动失败: %w", err)
	}

	s := &Server{listener: listener, done: make(chan struct{})}
	go s.serve(handler)

	logger.Component("instance").WithField("addr", listener.Addr().String()).Info("IPC 服务器已启动")
	return s, nil
}

func (s *Server) serve(handler func(msg string)) {
	defer close(s.done)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(dialTimeout))
		buf := make([]byte, maxMessage)
		n, _ := conn.Read(buf)
		conn.Close()

		if msg := strings.TrimSpace(string(buf[:n])); msg != "" && handler != nil {
			handler(msg)
		}
	}
}

// Addr 实际监听地址
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close 关闭服务器并等待退出
func (s *Server) Close() error {
	err := s.listener.Close()
	<-s.done
	return err
}

// Notify 向已运行的实例发送消息
func Notify(addr, msg string) error {
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("无法连接到已运行的实例: %w", err)
	}
	defer conn.Close()

	_, err = conn.Write([]byte(msg))
	return err
}
