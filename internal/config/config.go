package config

import (
	"payment-processor-sol/internal/mq"
	"payment-processor-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers   string `yaml:"brokers"`    // Kafka broker 地址，多个用英文逗号分隔
	BatchSize int    `yaml:"batch_size"` // 批处理大小（单位字节）
	LingerMs  int    `yaml:"linger_ms"`  // 批处理最大延迟（毫秒）

	Topics struct {
		Payment string `yaml:"payment"` // 支付事件的 Kafka topic
	} `yaml:"topics"`

	Partitions struct {
		Payment int `yaml:"payment"` // payment topic 的分区数
	} `yaml:"partitions"`
}

func (c *KafkaProducerConfig) ToKafkaOption() mq.KafkaProducerOption {
	return mq.KafkaProducerOption{
		Brokers:   c.Brokers,
		BatchSize: c.BatchSize,
		LingerMs:  c.LingerMs,
		Topics: []struct {
			Topic      string
			Partitions int
		}{
			{Topic: c.Topics.Payment, Partitions: c.Partitions.Payment},
		},
	}
}

// RpcConfig 表示 RPC 轮询模式的配置（原始后端的取数方式，作为 gRPC 流的兜底）
type RpcConfig struct {
	Endpoint      string `yaml:"endpoint"`        // Solana RPC 节点地址
	PollIntervalS int    `yaml:"poll_interval_s"` // 轮询间隔（秒）
	BatchLimit    int    `yaml:"batch_limit"`     // 单次拉取的最大签名数
}

// TimeConfig 表示各种超时配置（单位：毫秒）
type TimeConfig struct {
	EventSendTimeoutMs int `yaml:"event_send_timeout_ms"` // 单条事件发送到 Kafka 并等待 ack 的超时时间
}

// WatcherConfig 是主配置结构体，用于驱动支付监听服务
type WatcherConfig struct {
	LogConf           LogConfig           `yaml:"logger"`         // 日志配置
	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"` // Kafka 生产者配置
	TimeConf          TimeConfig          `yaml:"time_conf"`      // 时间相关配置

	RedisAddr string    `yaml:"redis_addr"` // Redis 地址（签名判重）
	RpcConf   RpcConfig `yaml:"rpc"`        // RPC 轮询配置

	// gRPC（Yellowstone geyser）订阅配置；endpoint 为空时退回 RPC 轮询
	Grpc struct {
		Endpoint string `yaml:"endpoint"` // gRPC 服务端地址
		XToken   string `yaml:"x_token"`  // x-token 认证

		// 应用级逻辑心跳（ping）配置
		StreamPingIntervalSec int `yaml:"stream_ping_interval_sec"` // 应用层 ping 心跳间隔（秒）

		// gRPC Keepalive 底层连接检测配置
		KeepalivePingIntervalSec int `yaml:"keepalive_ping_interval_sec"` // 底层 keepalive 间隔（秒）
		KeepalivePingTimeoutSec  int `yaml:"keepalive_ping_timeout_sec"`  // 底层 keepalive 超时（秒）

		// 消息体大小限制
		MaxCallRecvMsgSize int `yaml:"max_call_recv_msg_size"` // 单条消息最大接收字节数

		// 超时与重连策略
		ReconnectIntervalSec int `yaml:"reconnect_interval_sec"` // 重连最小间隔（秒）
		ConnectTimeoutSec    int `yaml:"connect_timeout_sec"`    // 连接建立超时（秒）
		SendTimeoutSec       int `yaml:"send_timeout_sec"`       // 发送超时（秒）
		TxRecvTimeoutSec     int `yaml:"tx_recv_timeout_sec"`    // 交易接收超时（秒），超过即重连
	} `yaml:"grpc"`
}
