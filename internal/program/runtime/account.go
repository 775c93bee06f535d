package runtime

import (
	"fmt"

	"payment-processor-sol/internal/types"
)

// 账户数据上限（与 Solana runtime 保持一致）
const MaxAccountDataSize = 10 * 1024 * 1024

// AccountInfo 表示一次调用中宿主传入的单个账户视图。
// 标志位（IsSigner / IsWritable）由宿主校验后给出，程序只读不改。
type AccountInfo struct {
	Pubkey     types.Pubkey // 账户地址
	Lamports   uint64       // 原生余额（lamport）
	Data       []byte       // 账户数据缓冲区
	Owner      types.Pubkey // 拥有该账户的程序
	Executable bool         // 是否为程序账户
	IsSigner   bool         // 本次调用是否携带签名
	IsWritable bool         // 本次调用是否允许写入
}

// DataLen 返回账户数据长度
func (a *AccountInfo) DataLen() int {
	return len(a.Data)
}

// Realloc 将账户数据调整到 newSize。扩容部分填零，缩容截断尾部。
// 调用方必须自行保证截断不会丢弃仍然有效的数据。
func (a *AccountInfo) Realloc(newSize int) error {
	if newSize < 0 || newSize > MaxAccountDataSize {
		return fmt.Errorf("invalid realloc size: %d", newSize)
	}
	if newSize == len(a.Data) {
		return nil
	}
	if newSize < len(a.Data) {
		a.Data = a.Data[:newSize]
		return nil
	}
	grown := make([]byte, newSize)
	copy(grown, a.Data)
	a.Data = grown
	return nil
}
