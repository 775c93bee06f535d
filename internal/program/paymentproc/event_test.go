package paymentproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentEvent_Roundtrip(t *testing.T) {
	event := &PaymentEvent{
		User:      testKey(0x11),
		Amount:    1000,
		Timestamp: 1735689600,
		TokenMint: testKey(0x22),
	}

	data, err := event.Encode()
	require.NoError(t, err)
	// 8 字节判别符 + 32 + 8 + 8 + 32
	assert.Equal(t, 88, len(data))

	got, ok, err := DecodePaymentEvent(data)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, event, got)
}

func TestDecodePaymentEvent_OtherEvent(t *testing.T) {
	// 判别符不符的事件应被跳过而不是报错
	other := make([]byte, 88)
	got, ok, err := DecodePaymentEvent(other)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	// 过短数据同样跳过
	_, ok, err = DecodePaymentEvent([]byte{1, 2, 3})
	assert.NoError(t, err)
	assert.False(t, ok)
}
