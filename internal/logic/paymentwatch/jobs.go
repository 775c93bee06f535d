package paymentwatch

import (
	"encoding/json"
	"fmt"

	"payment-processor-sol/internal/mq"
	"payment-processor-sol/internal/utils"
)

// BuildPaymentJobs 将支付记录编码为 Kafka 消息。
// 按用户公钥哈希选分区，保证同一用户的支付在分区内有序；key 用签名便于下游按消息去重。
func BuildPaymentJobs(records []*PaymentRecord, topic string, partitions int) ([]*mq.KafkaJob, error) {
	if partitions <= 0 {
		partitions = 1
	}
	jobs := make([]*mq.KafkaJob, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("marshal payment record, tx=%s: %w", record.Signature, err)
		}
		jobs = append(jobs, &mq.KafkaJob{
			Topic:     topic,
			Partition: int32(utils.PartitionHashBytes(record.User.Bytes(), uint32(partitions))),
			Key:       []byte(record.Signature),
			Value:     utils.EncodeEvent(utils.EventTypePayment, payload),
		})
	}
	return jobs, nil
}
