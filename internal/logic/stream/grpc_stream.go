package stream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"payment-processor-sol/internal/config"
	"payment-processor-sol/internal/consts"
	"payment-processor-sol/pkg/logger"

	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/metadata"
)

// GrpcStreamManager 维护对 Yellowstone geyser 的交易订阅流，
// 只订阅支付合约相关的交易，断流后自动重连。
type GrpcStreamManager struct {
	mu                    sync.Mutex                          // 互斥锁，保护并发安全
	conn                  *grpc.ClientConn                    // gRPC 连接对象
	client                pb.GeyserClient                     // gRPC 客户端
	stream                pb.Geyser_SubscribeClient           // gRPC 订阅流
	stopped               bool                                // 标记是否已经停止
	reconnectAttempts     int                                 // 已重连次数
	reconnectInterval     time.Duration                       // 重连基础间隔
	xToken                string                              // 认证用的 x-token
	streamPingIntervalSec int                                 // Stream心跳包发送间隔（秒）
	txChan                chan *pb.SubscribeUpdateTransaction // 交易数据通道
	connCtx               context.Context                     // 当前连接的 context
	connCancel            context.CancelFunc                  // 当前连接的 cancel 函数
	txRecvTimeoutSec      int                                 // 交易接收超时时间（秒），超过即重连
	sendTimeoutSec        int                                 // gRPC发送超时时间（秒）
}

func NewGrpcStreamManager(cfg *config.WatcherConfig, txChan chan *pb.SubscribeUpdateTransaction) (*GrpcStreamManager, error) {
	grpcConf := cfg.Grpc

	configTls := &tls.Config{
		InsecureSkipVerify: true,
	}

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(grpcConf.ConnectTimeoutSec)*time.Second)
	defer cancel()

	conn, err := grpc.DialContext(
		dialCtx,
		grpcConf.Endpoint,
		grpc.WithTransportCredentials(credentials.NewTLS(configTls)),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(grpcConf.MaxCallRecvMsgSize),
		),
		grpc.WithBlock(),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                time.Duration(grpcConf.KeepalivePingIntervalSec) * time.Second,
			Timeout:             time.Duration(grpcConf.KeepalivePingTimeoutSec) * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %v", err)
	}

	return &GrpcStreamManager{
		conn:                  conn,
		client:                pb.NewGeyserClient(conn),
		reconnectAttempts:     0,
		reconnectInterval:     time.Duration(grpcConf.ReconnectIntervalSec) * time.Second,
		xToken:                grpcConf.XToken,
		streamPingIntervalSec: grpcConf.StreamPingIntervalSec,
		txChan:                txChan,
		txRecvTimeoutSec:      grpcConf.TxRecvTimeoutSec,
		sendTimeoutSec:        grpcConf.SendTimeoutSec,
	}, nil
}

func (m *GrpcStreamManager) Start() {
	m.mustConnect()
}

func (m *GrpcStreamManager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopped = true // 标记已停止
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	if m.conn != nil {
		err := m.conn.Close()
		_ = err
	}
}

// 内部循环直到连接成功
func (m *GrpcStreamManager) mustConnect() {
	for {
		m.mu.Lock()
		if m.stopped {
			m.mu.Unlock()
			return
		}
		m.mu.Unlock()

		if m.reconnectAttempts > 0 {
			if m.reconnectAttempts > 3 {
				time.Sleep(m.reconnectInterval * 2)
			} else {
				time.Sleep(m.reconnectInterval)
			}
		}
		logger.Infof("[stream] connecting... attempt %d", m.reconnectAttempts+1)
		m.reconnectAttempts++
		err := m.connect()
		if err == nil {
			return // 连接成功
		}
		logger.Warnf("[stream] connect failed: %v, will retry...", err)
	}
}

// buildSubscribeRequest 只订阅涉及支付合约的非 vote、成功交易。
// 按账户过滤比订阅整块轻得多，合约交易量远低于全网。
func buildSubscribeRequest() *pb.SubscribeRequest {
	transactions := make(map[string]*pb.SubscribeRequestFilterTransactions)
	transactions["payment"] = &pb.SubscribeRequestFilterTransactions{
		AccountInclude: []string{consts.PaymentProcessorProgramStr},
		Vote:           boolPtr(false),
		Failed:         boolPtr(false), // 失败交易不会产生事件日志
	}
	commitment := pb.CommitmentLevel_CONFIRMED
	return &pb.SubscribeRequest{
		Transactions: transactions,
		Commitment:   &commitment,
	}
}

// connect 只尝试一次连接
func (m *GrpcStreamManager) connect() error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return errors.New("manager is stopped")
	}
	defer m.mu.Unlock()

	// 先关闭旧的 context，优雅退出旧 goroutine
	if m.connCancel != nil {
		m.connCancel()
		m.connCancel = nil
	}
	m.connCtx, m.connCancel = context.WithCancel(context.Background())

	metaCtx := metadata.NewOutgoingContext(
		m.connCtx,
		metadata.New(map[string]string{"x-token": m.xToken}),
	)
	stream, err := m.client.Subscribe(metaCtx)
	if err != nil {
		logger.Warnf("[stream] failed to subscribe: %v", err)
		return err
	}

	req := buildSubscribeRequest()
	err = sendWithTimeout(m.connCtx, stream.Send, req, time.Duration(m.sendTimeoutSec)*time.Second)
	if err != nil {
		logger.Warnf("[stream] failed to send request: %v", err)
		return err
	}

	m.stream = stream
	m.reconnectAttempts = 0
	logger.Infof("[stream] connection established")

	// 启动 ping 协程
	go m.pingLoop(m.connCtx)
	// 启动交易监听协程
	go m.txRecvLoop(m.connCtx)

	return nil
}

func (m *GrpcStreamManager) txRecvLoop(ctx context.Context) {
	last := time.Now()
	txTimeout := time.Duration(m.txRecvTimeoutSec) * time.Second
	for {
		select {
		case <-ctx.Done():
			return // 优雅退出
		default:
			update, err := m.stream.Recv()
			now := time.Now()
			if err != nil {
				if errors.Is(err, io.EOF) {
					logger.Warnf("[stream] stream closed by server (EOF), will reconnect")
					m.reconnect()
					return
				}

				logger.Warnf("[stream] stream error: %v", err)
				if m.reconnectIfTxTimeout(last, txTimeout) {
					return
				}
				time.Sleep(100 * time.Millisecond)
				continue
			}

			switch u := update.GetUpdateOneof().(type) {
			case *pb.SubscribeUpdate_Transaction:
				select {
				case m.txChan <- u.Transaction:
				default:
					logger.Warnf("[stream] txChan is full, discard tx at slot %v", u.Transaction.Slot)
				}
				last = now
			}
		}

		if m.reconnectIfTxTimeout(last, txTimeout) {
			return
		}
	}
}

// 带超时的 Send
func sendWithTimeout[T any](ctx context.Context, sendFunc func(T) error, req T, timeout time.Duration) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sendFunc(req)
	}()

	select {
	case <-timeoutCtx.Done():
		return timeoutCtx.Err()
	case err := <-done:
		return err
	}
}

// 心跳检测
func (m *GrpcStreamManager) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.streamPingIntervalSec) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return // 优雅退出
		case <-ticker.C:
			pingReq := &pb.SubscribeRequest{
				Ping: &pb.SubscribeRequestPing{Id: 1},
			}
			err := sendWithTimeout(ctx, m.stream.Send, pingReq, time.Duration(m.sendTimeoutSec)*time.Second)
			if err != nil {
				logger.Warnf("[stream] ping failed: %v", err)
				// 这里只记录日志，不触发重连
			}
		}
	}
}

func (m *GrpcStreamManager) reconnectIfTxTimeout(last time.Time, timeout time.Duration) bool {
	if time.Since(last) > timeout {
		logger.Warnf("[stream] %v未收到交易，触发重连", timeout)
		m.reconnect()
		return true
	}
	return false
}

func (m *GrpcStreamManager) reconnect() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	if m.connCancel != nil {
		m.connCancel() // 关闭所有相关 goroutine
		m.connCancel = nil
	}
	m.mu.Unlock()

	go m.mustConnect()
}

func boolPtr(b bool) *bool {
	return &b
}
