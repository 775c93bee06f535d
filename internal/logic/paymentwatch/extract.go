package paymentwatch

import (
	"encoding/base64"
	"strings"

	"payment-processor-sol/internal/program/paymentproc"
	"payment-processor-sol/internal/types"
	"payment-processor-sol/pkg/logger"
)

// anchor 事件日志前缀，payload 为 base64（8 字节 discriminator + borsh）。
const programDataPrefix = "Program data: "

// PaymentRecord 是从链上日志还原出的一笔支付，发往 Kafka 的最小单元。
type PaymentRecord struct {
	Signature string       `json:"signature"`
	Slot      uint64       `json:"slot"`
	User      types.Pubkey `json:"user"`
	Amount    uint64       `json:"amount"`
	Timestamp int64        `json:"timestamp"`
	TokenMint types.Pubkey `json:"token_mint"`
}

// ExtractPaymentRecords 扫描一笔交易的日志，解析其中的 PaymentEvent。
// 非事件日志与其他程序的 "Program data:" 行静默跳过，解码失败仅告警不中断。
func ExtractPaymentRecords(signature string, slot uint64, logs []string) []*PaymentRecord {
	var records []*PaymentRecord
	for _, line := range logs {
		if !strings.HasPrefix(line, programDataPrefix) {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, programDataPrefix))
		if err != nil {
			logger.Warnf("[paymentwatch] base64 解码失败, tx=%s: %v", signature, err)
			continue
		}
		event, ok, err := paymentproc.DecodePaymentEvent(raw)
		if err != nil {
			logger.Warnf("[paymentwatch] 事件解码失败, tx=%s: %v", signature, err)
			continue
		}
		if !ok {
			continue
		}
		records = append(records, &PaymentRecord{
			Signature: signature,
			Slot:      slot,
			User:      event.User,
			Amount:    event.Amount,
			Timestamp: event.Timestamp,
			TokenMint: event.TokenMint,
		})
	}
	return records
}
