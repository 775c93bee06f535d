package paymentwatch

import (
	"encoding/base64"
	"testing"

	"payment-processor-sol/internal/program/paymentproc"
	"payment-processor-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPubkey(seed byte) types.Pubkey {
	var p types.Pubkey
	for i := range p {
		p[i] = seed
	}
	return p
}

func encodeEventLog(t *testing.T, event *paymentproc.PaymentEvent) string {
	t.Helper()
	raw, err := event.Encode()
	require.NoError(t, err)
	return programDataPrefix + base64.StdEncoding.EncodeToString(raw)
}

func TestExtractPaymentRecords(t *testing.T) {
	user := testPubkey(1)
	mint := testPubkey(2)
	event := &paymentproc.PaymentEvent{
		User:      user,
		Amount:    5_000_000,
		Timestamp: 1700000000,
		TokenMint: mint,
	}

	logs := []string{
		"Program 2RHgoS9Xdx8DcA9aCPzK9afQUJfZGip7w1VU4VkiTp2P invoke [1]",
		"Program log: Instruction: ProcessPayment",
		encodeEventLog(t, event),
		"Program 2RHgoS9Xdx8DcA9aCPzK9afQUJfZGip7w1VU4VkiTp2P success",
	}

	records := ExtractPaymentRecords("sig1", 12345, logs)
	require.Len(t, records, 1)
	assert.Equal(t, "sig1", records[0].Signature)
	assert.Equal(t, uint64(12345), records[0].Slot)
	assert.Equal(t, user, records[0].User)
	assert.Equal(t, uint64(5_000_000), records[0].Amount)
	assert.Equal(t, int64(1700000000), records[0].Timestamp)
	assert.Equal(t, mint, records[0].TokenMint)
}

func TestExtractPaymentRecords_跳过无关日志(t *testing.T) {
	logs := []string{
		"Program log: hello",
		// 其他程序的事件：判别符不匹配，应静默跳过
		programDataPrefix + base64.StdEncoding.EncodeToString(make([]byte, 16)),
		// 非法 base64
		programDataPrefix + "!!!not-base64!!!",
	}
	records := ExtractPaymentRecords("sig2", 1, logs)
	assert.Empty(t, records)
}

func TestExtractPaymentRecords_多笔事件(t *testing.T) {
	logs := []string{
		encodeEventLog(t, &paymentproc.PaymentEvent{User: testPubkey(1), Amount: 100, Timestamp: 1, TokenMint: testPubkey(9)}),
		encodeEventLog(t, &paymentproc.PaymentEvent{User: testPubkey(2), Amount: 200, Timestamp: 2, TokenMint: testPubkey(9)}),
	}
	records := ExtractPaymentRecords("sig3", 7, logs)
	require.Len(t, records, 2)
	assert.Equal(t, uint64(100), records[0].Amount)
	assert.Equal(t, uint64(200), records[1].Amount)
}
