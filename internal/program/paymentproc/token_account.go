package paymentproc

import (
	"encoding/binary"
	"fmt"

	"payment-processor-sol/internal/types"
)

// TokenRecordMinSize 是 SPL Token 与 Token-2022 账户共有前缀的最小长度。
// 两种标准在前 72 字节布局一致：mint [0,32)、owner [32,64)、amount u64 LE [64,72)，
// 因此这里只解析到第 72 字节，之后的扩展字段一概不读，也不尝试区分标准。
const TokenRecordMinSize = 72

// TokenRecord 是外部代币账户的最小结构视图
type TokenRecord struct {
	Mint   types.Pubkey // 代币 mint 地址
	Owner  types.Pubkey // 持有人地址
	Amount uint64       // 余额（最小单位）
}

// ParseTokenRecord 手工解析代币账户的二进制布局。
// 数据过短或公钥字段无法解析时返回 ErrInvalidTokenAccount，从不 panic。
func ParseTokenRecord(data []byte) (*TokenRecord, error) {
	if len(data) < TokenRecordMinSize {
		return nil, fmt.Errorf("%w: data too short, got %d bytes, want >= %d",
			ErrInvalidTokenAccount, len(data), TokenRecordMinSize)
	}

	mint, err := types.TryPubkeyFromBytes(data[0:32])
	if err != nil {
		return nil, fmt.Errorf("%w: bad mint field: %v", ErrInvalidTokenAccount, err)
	}
	owner, err := types.TryPubkeyFromBytes(data[32:64])
	if err != nil {
		return nil, fmt.Errorf("%w: bad owner field: %v", ErrInvalidTokenAccount, err)
	}

	return &TokenRecord{
		Mint:   mint,
		Owner:  owner,
		Amount: binary.LittleEndian.Uint64(data[64:72]),
	}, nil
}

// IsUninitializedTokenAccount 判断托管账户是否尚未初始化：
// 空缓冲区，或首字节（mint 第一个字节兼状态标记）为零。
func IsUninitializedTokenAccount(data []byte) bool {
	return len(data) == 0 || data[0] == 0
}
