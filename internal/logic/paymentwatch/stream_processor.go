package paymentwatch

import (
	"context"
	"time"

	"payment-processor-sol/internal/mq"
	"payment-processor-sol/internal/svc"
	"payment-processor-sol/pkg/logger"

	"github.com/mr-tron/base58"
	pb "github.com/rpcpool/yellowstone-grpc/examples/golang/proto"
)

// StreamProcessor 消费 gRPC 流推来的交易，解析支付事件并投递 Kafka。
// 与 RPC 轮询共用同一套 Redis 去重，两条链路可以同时开。
type StreamProcessor struct {
	sc     *svc.WatcherServiceContext
	store  *SignatureStore
	txChan chan *pb.SubscribeUpdateTransaction
	ctx    context.Context
	cancel context.CancelFunc
}

func NewStreamProcessor(sc *svc.WatcherServiceContext, txChan chan *pb.SubscribeUpdateTransaction) *StreamProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &StreamProcessor{
		sc:     sc,
		store:  NewSignatureStore(sc.Redis),
		txChan: txChan,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *StreamProcessor) Start() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case tx, ok := <-p.txChan:
			if !ok {
				return
			}
			p.handleTx(tx)
		}
	}
}

func (p *StreamProcessor) Stop() {
	p.cancel()
}

func (p *StreamProcessor) handleTx(tx *pb.SubscribeUpdateTransaction) {
	info := tx.GetTransaction()
	if info == nil || info.GetMeta() == nil {
		return
	}
	// 订阅端已过滤失败交易，这里再兜底一次
	if info.GetMeta().GetErr() != nil {
		return
	}

	signature := base58.Encode(info.GetSignature())

	seen, err := p.store.Seen(p.ctx, signature)
	if err != nil {
		logger.Warnf("[paymentwatch] Redis 判重失败, tx=%s: %v，按未见过处理", signature, err)
	} else if seen {
		return
	}

	records := ExtractPaymentRecords(signature, tx.GetSlot(), info.GetMeta().GetLogMessages())
	if len(records) == 0 {
		return
	}

	kafkaConf := p.sc.Config.KafkaProducerConf
	jobs, err := BuildPaymentJobs(records, kafkaConf.Topics.Payment, kafkaConf.Partitions.Payment)
	if err != nil {
		logger.Errorf("[paymentwatch] 构造 Kafka 消息失败, tx=%s: %v", signature, err)
		return
	}

	timeout := time.Duration(p.sc.Config.TimeConf.EventSendTimeoutMs) * time.Millisecond
	okJobs, failed := mq.SendKafkaJobs(p.ctx, p.sc.Producer, jobs, timeout)
	for _, f := range failed {
		logger.Errorf("[paymentwatch] Kafka 投递失败, topic=%s key=%s: %v", f.Job.Topic, string(f.Job.Key), f.Err)
	}
	if len(failed) > 0 {
		// 有失败就不标记，下一条链路（轮询）还有机会补投
		return
	}

	logger.Infof("[paymentwatch] 投递支付事件 %d 条, tx=%s slot=%d", len(okJobs), signature, tx.GetSlot())
	if err := p.store.Mark(p.ctx, signature); err != nil {
		logger.Warnf("[paymentwatch] Redis 标记失败, tx=%s: %v", signature, err)
	}
}
