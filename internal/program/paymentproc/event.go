package paymentproc

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"payment-processor-sol/internal/types"

	"github.com/near/borsh-go"
)

// eventDiscriminator 是 Anchor 事件判别符：sha256("event:PaymentEvent") 前 8 字节
var eventDiscriminator = func() [8]byte {
	sum := sha256.Sum256([]byte("event:PaymentEvent"))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}()

// PaymentEvent 是每笔成功支付发出的审计事件，字段忠实回显本次操作的输入。
// 仅发布不落账，链上不保存。
type PaymentEvent struct {
	User      types.Pubkey // 付款人
	Amount    uint64       // 支付数量（最小单位）
	Timestamp int64        // 链上时钟的 unix 秒
	TokenMint types.Pubkey // 支付代币 mint
}

// Encode 编码为链上事件线格式：8 字节判别符 + borsh 字段
func (e *PaymentEvent) Encode() ([]byte, error) {
	body, err := borsh.Serialize(*e)
	if err != nil {
		return nil, fmt.Errorf("serialize payment event: %w", err)
	}
	out := make([]byte, 0, 8+len(body))
	out = append(out, eventDiscriminator[:]...)
	out = append(out, body...)
	return out, nil
}

// DecodePaymentEvent 从事件数据还原 PaymentEvent；判别符不匹配时返回 (nil, false, nil)，
// 供事件流消费方跳过其他类型的事件。
func DecodePaymentEvent(data []byte) (*PaymentEvent, bool, error) {
	if len(data) < 8 || !bytes.Equal(data[:8], eventDiscriminator[:]) {
		return nil, false, nil
	}
	event := &PaymentEvent{}
	if err := borsh.Deserialize(event, data[8:]); err != nil {
		return nil, true, fmt.Errorf("deserialize payment event: %w", err)
	}
	return event, true, nil
}
