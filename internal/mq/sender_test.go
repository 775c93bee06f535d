package mq

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
)

const testTopic = "payment_events_test"

// 集成测试：需要本地 Kafka，通过 TEST_KAFKA_BROKERS 指定（如 127.0.0.1:9092）
func testBrokers(t *testing.T) string {
	brokers := os.Getenv("TEST_KAFKA_BROKERS")
	if brokers == "" {
		t.Skip("TEST_KAFKA_BROKERS 未设置，跳过 Kafka 集成测试")
	}
	return brokers
}

func createTestProducer(t *testing.T, brokers, clientID string) *kafka.Producer {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"client.id":         clientID,

		"acks":               "all",
		"enable.idempotence": false,

		"delivery.timeout.ms":      30000,
		"request.timeout.ms":       30000,
		"message.send.max.retries": 3,
		"retry.backoff.ms":         100,

		"compression.type": "none",

		"allow.auto.create.topics": true,
	})
	if err != nil {
		t.Fatalf("Failed to create producer: %v", err)
	}
	return producer
}

func TestSendKafkaJobs_RealKafka(t *testing.T) {
	brokers := testBrokers(t)
	producer := createTestProducer(t, brokers, "test-producer")
	defer producer.Close()

	jobs := []*KafkaJob{
		{Topic: testTopic, Key: []byte("sig1"), Value: []byte("test message 1")},
		{Topic: testTopic, Key: []byte("sig2"), Value: []byte("test message 2")},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, failed := SendKafkaJobs(ctx, producer, jobs, 2*time.Second)

	assert.Equal(t, 2, len(ok), "应该成功发送 2 条消息")
	assert.Equal(t, 0, len(failed), "不应该有失败的消息")

	producer.Flush(1000)
}

// 测试超时场景
func TestSendKafkaJobs_RealKafka_Timeout(t *testing.T) {
	brokers := testBrokers(t)
	producer := createTestProducer(t, brokers, "test-producer-timeout")
	defer func() {
		producer.Flush(1000)
		producer.Close()
	}()

	jobs := []*KafkaJob{
		{Topic: testTopic, Value: []byte("test message")},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	ok, failed := SendKafkaJobs(ctx, producer, jobs, 5*time.Millisecond)

	assert.Equal(t, 0, len(ok), "由于超时，不应该有成功的消息")
	assert.Equal(t, 1, len(failed), "应该有 1 条失败的消息")
}

// 测试空消息列表（不依赖 broker 连通性）
func TestSendKafkaJobs_Empty(t *testing.T) {
	brokers := testBrokers(t)
	producer := createTestProducer(t, brokers, "test-producer-empty")
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, failed := SendKafkaJobs(ctx, producer, []*KafkaJob{}, 2*time.Second)

	assert.Equal(t, 0, len(ok))
	assert.Equal(t, 0, len(failed))
}
