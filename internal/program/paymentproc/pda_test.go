package paymentproc

import (
	"testing"

	"payment-processor-sol/internal/consts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustodyAddress_BumpRoundtrip(t *testing.T) {
	addr, bump, err := CustodyAddress(consts.PaymentProcessorProgram, consts.AcceptedMint)
	require.NoError(t, err)
	assert.False(t, addr.IsZero())

	// 规范 bump 重建出同一地址
	rebuilt, err := CustodyAddressForBump(consts.PaymentProcessorProgram, consts.AcceptedMint, bump)
	require.NoError(t, err)
	assert.Equal(t, addr, rebuilt)
}

func TestStateAddress_Deterministic(t *testing.T) {
	addr1, bump1, err := StateAddress(consts.PaymentProcessorProgram)
	require.NoError(t, err)
	addr2, bump2, err := StateAddress(consts.PaymentProcessorProgram)
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)

	// 不同 mint 的托管地址互不相同
	c1, _, err := CustodyAddress(consts.PaymentProcessorProgram, consts.AcceptedMint)
	require.NoError(t, err)
	c2, _, err := CustodyAddress(consts.PaymentProcessorProgram, testKey(0x77))
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	assert.NotEqual(t, addr1, c1)
}
