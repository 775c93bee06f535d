package paymentproc

import (
	"encoding/binary"
	"testing"

	"payment-processor-sol/internal/consts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitializeAccountInstruction(t *testing.T) {
	custody := testKey(0x13)
	ix := NewInitializeAccountInstruction(
		consts.TokenProgram2022, custody, consts.AcceptedMint, custody, consts.RentSysvar)

	// 指令按传入的 token program 路由，两种标准共用一套编码
	assert.Equal(t, consts.TokenProgram2022, ix.ProgramID)
	assert.Equal(t, []byte{1}, ix.Data)

	require.Len(t, ix.Accounts, 4)
	assert.Equal(t, custody, ix.Accounts[0].Pubkey)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.Equal(t, consts.AcceptedMint, ix.Accounts[1].Pubkey)
	// 托管账户自权限：owner 位置仍是托管账户自身
	assert.Equal(t, custody, ix.Accounts[2].Pubkey)
	assert.Equal(t, consts.RentSysvar, ix.Accounts[3].Pubkey)
	for _, meta := range ix.Accounts {
		assert.False(t, meta.IsSigner)
	}
}

func TestNewTransferInstruction(t *testing.T) {
	src, dst, auth := testKey(0x12), testKey(0x13), testKey(0x11)
	ix := NewTransferInstruction(consts.TokenProgram, src, dst, auth, 987654321)

	assert.Equal(t, consts.TokenProgram, ix.ProgramID)

	// 载荷：1 字节操作标签 + 8 字节小端 amount
	require.Len(t, ix.Data, 9)
	assert.Equal(t, byte(3), ix.Data[0])
	assert.Equal(t, uint64(987654321), binary.LittleEndian.Uint64(ix.Data[1:9]))

	require.Len(t, ix.Accounts, 3)
	assert.True(t, ix.Accounts[0].IsWritable)
	assert.True(t, ix.Accounts[1].IsWritable)
	assert.True(t, ix.Accounts[2].IsSigner)
	assert.False(t, ix.Accounts[2].IsWritable)
}

func TestCustodySignerSeeds(t *testing.T) {
	seeds := CustodySignerSeeds(consts.AcceptedMint, 251)
	require.Len(t, seeds, 3)
	assert.Equal(t, []byte("program_token_account"), seeds[0])
	assert.Equal(t, consts.AcceptedMint.Bytes(), seeds[1])
	assert.Equal(t, []byte{251}, seeds[2])
}
