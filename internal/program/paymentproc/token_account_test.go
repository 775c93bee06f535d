package paymentproc

import (
	"encoding/binary"
	"testing"

	"payment-processor-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenRecord(t *testing.T) {
	mint := types.PubkeyFromBase58("Df3shQQ3qZ9qyLfrWTqfjP2TSSAqMvM5zxb2NXQQKaXh")
	owner := types.PubkeyFromBase58("So11111111111111111111111111111111111111112")

	// 72 字节是下限：两种标准只保证共有前缀，之后的扩展字段不读
	data := make([]byte, 72)
	copy(data[0:32], mint.Bytes())
	copy(data[32:64], owner.Bytes())
	binary.LittleEndian.PutUint64(data[64:72], 123456789)

	record, err := ParseTokenRecord(data)
	require.NoError(t, err)
	assert.Equal(t, mint, record.Mint)
	assert.Equal(t, owner, record.Owner)
	assert.Equal(t, uint64(123456789), record.Amount)

	// Token-2022 账户带扩展尾部，同样只解析前 72 字节
	extended := append(data, make([]byte, 100)...)
	record2, err := ParseTokenRecord(extended)
	require.NoError(t, err)
	assert.Equal(t, record, record2)
}

func TestParseTokenRecord_TooShort(t *testing.T) {
	// 任何长度 < 72 的缓冲区都必须返回错误，且不 panic
	for _, n := range []int{0, 1, 31, 32, 63, 64, 71} {
		_, err := ParseTokenRecord(make([]byte, n))
		assert.ErrorIs(t, err, ErrInvalidTokenAccount, "len=%d", n)
	}
}

func TestIsUninitializedTokenAccount(t *testing.T) {
	assert.True(t, IsUninitializedTokenAccount(nil))
	assert.True(t, IsUninitializedTokenAccount([]byte{}))
	assert.True(t, IsUninitializedTokenAccount(make([]byte, 165)))

	data := make([]byte, 165)
	data[0] = 0x42
	assert.False(t, IsUninitializedTokenAccount(data))
}
