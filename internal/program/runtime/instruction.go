package runtime

import (
	"payment-processor-sol/internal/types"
)

// AccountMeta 描述指令引用的一个账户及其权限标志
type AccountMeta struct {
	Pubkey     types.Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction 是一条待派发的链上指令（纯数据，不含任何执行逻辑）
type Instruction struct {
	ProgramID types.Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

func NewAccountMeta(pubkey types.Pubkey, writable bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: false, IsWritable: writable}
}

func NewSignerMeta(pubkey types.Pubkey, writable bool) AccountMeta {
	return AccountMeta{Pubkey: pubkey, IsSigner: true, IsWritable: writable}
}

// SignerSeeds 表示一组 PDA 签名种子。宿主据此为派生地址附加程序签名，
// 程序本身从不计算签名，只负责提供种子材料（含 bump 字节）。
type SignerSeeds [][]byte
