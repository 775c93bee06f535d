package svc

import (
	"payment-processor-sol/internal/config"
	"payment-processor-sol/internal/consts"
	"payment-processor-sol/internal/mq"
	"payment-processor-sol/internal/program/paymentproc"
	"payment-processor-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/redis/go-redis/v9"
)

// WatcherServiceContext 包含支付监听服务的共享资源
type WatcherServiceContext struct {
	Config    config.WatcherConfig
	Producer  *kafka.Producer
	Redis     *redis.Client
	RpcClient *client.Client
}

// NewWatcherServiceContext 创建一个新的监听服务上下文
func NewWatcherServiceContext(c config.WatcherConfig) (*WatcherServiceContext, error) {
	// 1. 初始化 Kafka 生产者
	producer, err := mq.NewKafkaProducer(c.KafkaProducerConf.ToKafkaOption())
	if err != nil {
		logger.Errorf("Kafka producer 初始化失败: %v", err)
		return nil, err
	}

	// 2. 初始化 Redis 客户端（用于签名判重）
	rdb := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr, // eg: "127.0.0.1:6379"
	})

	// 3. 初始化 Solana RPC 客户端（轮询兜底 + 历史补偿）
	rpcClient := client.NewClient(c.RpcConf.Endpoint)

	// 启动时打印合约的两个 PDA，便于运维核对监听目标
	if stateAddr, _, err := paymentproc.StateAddress(consts.PaymentProcessorProgram); err == nil {
		logger.Infof("合约状态账户: %s", stateAddr)
	}
	if custodyAddr, _, err := paymentproc.CustodyAddress(consts.PaymentProcessorProgram, consts.AcceptedMint); err == nil {
		logger.Infof("合约托管账户: %s (mint=%s)", custodyAddr, consts.AcceptedMintStr)
	}

	ctx := &WatcherServiceContext{
		Config:    c,
		Producer:  producer,
		Redis:     rdb,
		RpcClient: rpcClient,
	}

	logger.Infof("监听服务上下文初始化完成")
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *WatcherServiceContext) Close() {
	if ctx.Producer != nil {
		ctx.Producer.Close()
	}
	if ctx.Redis != nil {
		_ = ctx.Redis.Close()
	}
}
