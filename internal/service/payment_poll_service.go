package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"payment-processor-sol/internal/consts"
	"payment-processor-sol/internal/logic/paymentwatch"
	"payment-processor-sol/internal/mq"
	"payment-processor-sol/internal/svc"
	"payment-processor-sol/pkg/logger"

	"github.com/blocto/solana-go-sdk/client"
)

const defaultBatchLimit = 20

// PaymentPollService 周期性拉取支付合约地址的最新签名，
// 解析交易日志中的支付事件并投递 Kafka。RPC 轮询是最朴素也最稳的链路，
// gRPC 流可用时它退化为补偿通道（Redis 判重保证不重复投递）。
type PaymentPollService struct {
	sc            *svc.WatcherServiceContext
	store         *paymentwatch.SignatureStore
	interval      time.Duration
	batchLimit    int
	stopChan      chan struct{}
	ctx           context.Context
	cancel        func(err error)
	lastSignature string // 增量游标，GetSignaturesForAddress 的 until 参数
}

func NewPaymentPollService(sc *svc.WatcherServiceContext) (*PaymentPollService, error) {
	rpcConf := sc.Config.RpcConf
	if rpcConf.Endpoint == "" {
		return nil, errors.New("rpc endpoint is empty")
	}
	batchLimit := rpcConf.BatchLimit
	if batchLimit <= 0 {
		batchLimit = defaultBatchLimit
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	s := &PaymentPollService{
		sc:         sc,
		store:      paymentwatch.NewSignatureStore(sc.Redis),
		interval:   time.Duration(rpcConf.PollIntervalS) * time.Second,
		batchLimit: batchLimit,
		stopChan:   make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
	if s.interval <= 0 {
		s.interval = 10 * time.Second
	}
	return s, nil
}

func (s *PaymentPollService) Start() {
	logger.Infof("[PaymentPollService] 启动，interval=%v batchLimit=%d", s.interval, s.batchLimit)
	s.scheduleNext()
	<-s.stopChan
}

func (s *PaymentPollService) scheduleNext() {
	time.AfterFunc(s.interval, func() {
		if err := s.poll(); err != nil {
			logger.Warnf("[PaymentPollService] 周期性轮询失败: %v", err)
		}
		// 如果没有被 Stop，就继续调度
		select {
		case <-s.ctx.Done():
			return
		default:
			s.scheduleNext()
		}
	})
}

func (s *PaymentPollService) Stop() {
	s.cancel(errors.New("PaymentPollService stop"))
	select {
	case <-s.stopChan:
		// 已关闭，无需重复关闭
	default:
		close(s.stopChan)
	}
}

func (s *PaymentPollService) poll() (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[PaymentPollService] poll panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("poll panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	sigs, err := s.sc.RpcClient.GetSignaturesForAddressWithConfig(
		ctx,
		consts.PaymentProcessorProgramStr,
		client.GetSignaturesForAddressConfig{
			Limit: s.batchLimit,
			Until: s.lastSignature,
		},
	)
	if err != nil {
		return fmt.Errorf("GetSignaturesForAddress failed: %w", err)
	}
	if len(sigs) == 0 {
		return nil
	}

	// RPC 返回按时间倒序，反转后按链上顺序处理
	processed := 0
	for i := len(sigs) - 1; i >= 0; i-- {
		sig := sigs[i]
		if sig.Err != nil {
			continue // 失败交易不会产生事件日志
		}

		seen, err := s.store.Seen(ctx, sig.Signature)
		if err != nil {
			logger.Warnf("[PaymentPollService] Redis 判重失败, tx=%s: %v，按未见过处理", sig.Signature, err)
		} else if seen {
			continue
		}

		if err := s.handleSignature(ctx, sig.Signature); err != nil {
			// 单笔失败不推进游标，下一轮重试
			return err
		}
		processed++
	}

	// 全部处理成功后才推进游标，保证失败批次可重放
	s.lastSignature = sigs[0].Signature
	if processed > 0 {
		logger.Infof("[PaymentPollService] 本轮处理交易 %d 笔, cursor=%s", processed, s.lastSignature)
	}
	return nil
}

func (s *PaymentPollService) handleSignature(ctx context.Context, signature string) error {
	tx, err := s.sc.RpcClient.GetTransaction(ctx, signature)
	if err != nil {
		return fmt.Errorf("GetTransaction failed, tx=%s: %w", signature, err)
	}
	if tx == nil || tx.Meta == nil {
		return nil
	}
	if tx.Meta.Err != nil {
		return nil
	}

	records := paymentwatch.ExtractPaymentRecords(signature, tx.Slot, tx.Meta.LogMessages)
	if len(records) == 0 {
		// 管理类指令（加减管理员、提现等）没有事件，直接标记跳过
		return s.store.Mark(ctx, signature)
	}

	kafkaConf := s.sc.Config.KafkaProducerConf
	jobs, err := paymentwatch.BuildPaymentJobs(records, kafkaConf.Topics.Payment, kafkaConf.Partitions.Payment)
	if err != nil {
		return err
	}

	timeout := time.Duration(s.sc.Config.TimeConf.EventSendTimeoutMs) * time.Millisecond
	_, failed := mq.SendKafkaJobs(ctx, s.sc.Producer, jobs, timeout)
	if len(failed) > 0 {
		return fmt.Errorf("kafka 投递失败 %d 条, tx=%s, first err: %w", len(failed), signature, failed[0].Err)
	}

	logger.Infof("[PaymentPollService] 投递支付事件 %d 条, tx=%s slot=%d", len(jobs), signature, tx.Slot)
	return s.store.Mark(ctx, signature)
}
