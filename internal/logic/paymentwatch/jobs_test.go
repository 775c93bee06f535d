package paymentwatch

import (
	"encoding/json"
	"testing"

	"payment-processor-sol/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaymentJobs(t *testing.T) {
	records := []*PaymentRecord{
		{Signature: "sigA", Slot: 1, User: testPubkey(1), Amount: 100, Timestamp: 10, TokenMint: testPubkey(9)},
		{Signature: "sigB", Slot: 2, User: testPubkey(2), Amount: 200, Timestamp: 20, TokenMint: testPubkey(9)},
	}

	jobs, err := BuildPaymentJobs(records, "payment_events", 4)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	for i, job := range jobs {
		assert.Equal(t, "payment_events", job.Topic)
		assert.Equal(t, records[i].Signature, string(job.Key))
		assert.GreaterOrEqual(t, job.Partition, int32(0))
		assert.Less(t, job.Partition, int32(4))

		eventType, payload, err := utils.DecodeEvent(job.Value)
		require.NoError(t, err)
		assert.Equal(t, utils.EventTypePayment, eventType)

		var decoded PaymentRecord
		require.NoError(t, json.Unmarshal(payload, &decoded))
		assert.Equal(t, *records[i], decoded)
	}
}

func TestBuildPaymentJobs_同一用户同一分区(t *testing.T) {
	user := testPubkey(5)
	records := []*PaymentRecord{
		{Signature: "s1", User: user, Amount: 1},
		{Signature: "s2", User: user, Amount: 2},
	}
	jobs, err := BuildPaymentJobs(records, "payment_events", 8)
	require.NoError(t, err)
	assert.Equal(t, jobs[0].Partition, jobs[1].Partition)
}

func TestBuildPaymentJobs_分区数为零时兜底(t *testing.T) {
	jobs, err := BuildPaymentJobs([]*PaymentRecord{{Signature: "s", User: testPubkey(3)}}, "t", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(0), jobs[0].Partition)
}
