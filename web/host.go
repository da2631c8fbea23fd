package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/gocrud/container/logging"
)

// Host Web 主机
type Host struct {
	port   int
	engine *gin.Engine
	server *http.Server
	logger logging.Logger

	mu   sync.RWMutex
	addr string
}

// NewHost 创建 Web 主机，port 为 0 时随机分配端口
func NewHost(engine *gin.Engine, port int, logger logging.Logger) (*Host, error) {
	if engine == nil {
		return nil, fmt.Errorf("web: engine is required")
	}
	if port < 0 || port > 65535 {
		return nil, fmt.Errorf("web: invalid port %d", port)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Host{
		port:   port,
		engine: engine,
		logger: logger,
		server: &http.Server{Handler: engine},
	}, nil
}

// Engine 获取 Gin 引擎
func (h *Host) Engine() *gin.Engine {
	return h.engine
}

// Address 获取监听地址 (e.g., "[::]:50234")
// 仅在 Start 后有效
func (h *Host) Address() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.addr
}

// Start 启动 Web 主机
// 注意：此方法会阻塞，直到服务退出
func (h *Host) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", h.port)
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", addr, err)
	}

	h.mu.Lock()
	h.addr = ln.Addr().String()
	h.mu.Unlock()

	h.logger.Info("Web host started", logging.Field{Key: "address", Value: ln.Addr().String()})

	if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error("Web host error", logging.Field{Key: "error", Value: err})
		return err
	}
	return nil
}

// Stop 停止 Web 主机
func (h *Host) Stop(ctx context.Context) error {
	h.logger.Info("Stopping web host")

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Error("Failed to shutdown web host gracefully", logging.Field{Key: "error", Value: err})
		return err
	}

	h.logger.Info("Web host stopped")
	return nil
}
