package utils

import (
	"encoding/binary"
	"fmt"
)

// Kafka 消息的事件类型前缀，下游按前 4 字节路由再解析 payload。
const (
	EventTypePayment uint32 = 1
)

// EncodeEvent 将 payload 编码为带 4 字节小端事件类型前缀的二进制数据。
func EncodeEvent(eventType uint32, payload []byte) []byte {
	buf := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(buf, eventType)
	return append(buf, payload...)
}

// DecodeEvent 拆出事件类型与 payload。
func DecodeEvent(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, fmt.Errorf("event data too short: %d bytes", len(data))
	}
	return binary.LittleEndian.Uint32(data[:4]), data[4:], nil
}
