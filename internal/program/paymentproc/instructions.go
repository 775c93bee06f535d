package paymentproc

import (
	"encoding/binary"

	"payment-processor-sol/internal/consts"
	"payment-processor-sol/internal/program/runtime"
	"payment-processor-sol/internal/types"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
)

// 指令构造。SPL Token 与 Token-2022 对 InitializeAccount / Transfer
// 接受完全相同的指令编码，因此同一构造函数按传入的 tokenProgram 路由即可，
// 不需要按标准分叉，也不依赖任何类型化的账户反序列化层。

// NewInitializeAccountInstruction 构造 InitializeAccount 指令（标签字节 1）。
// 账户顺序：[account(w), mint, owner, rent]；托管账户以自身作为 owner（自权限 PDA）。
func NewInitializeAccountInstruction(tokenProgram, account, mint, owner, rentSysvar types.Pubkey) runtime.Instruction {
	return runtime.Instruction{
		ProgramID: tokenProgram,
		Accounts: []runtime.AccountMeta{
			runtime.NewAccountMeta(account, true),
			runtime.NewAccountMeta(mint, false),
			runtime.NewAccountMeta(owner, false),
			runtime.NewAccountMeta(rentSysvar, false),
		},
		Data: []byte{byte(sdktoken.InstructionInitializeAccount)},
	}
}

// NewTransferInstruction 构造 Transfer 指令（标签字节 3 + 8 字节小端 amount）。
// 账户顺序：[source(w), dest(w), authority(signer)]。
// authority 为托管账户自身时（提现路径），派发方需携带 PDA 种子走 InvokeSigned。
func NewTransferInstruction(tokenProgram, source, dest, authority types.Pubkey, amount uint64) runtime.Instruction {
	data := make([]byte, 9)
	data[0] = byte(sdktoken.InstructionTransfer)
	binary.LittleEndian.PutUint64(data[1:], amount)

	return runtime.Instruction{
		ProgramID: tokenProgram,
		Accounts: []runtime.AccountMeta{
			runtime.NewAccountMeta(source, true),
			runtime.NewAccountMeta(dest, true),
			runtime.NewSignerMeta(authority, false),
		},
		Data: data,
	}
}

// CustodySignerSeeds 构造托管账户的 PDA 签名种子：
// ("program_token_account", mint, bump)，顺序与链上派生保持一致。
func CustodySignerSeeds(mint types.Pubkey, bump uint8) runtime.SignerSeeds {
	return runtime.SignerSeeds{
		[]byte(consts.ProgramTokenAccountSeed),
		mint.Bytes(),
		{bump},
	}
}

// StateSignerSeeds 构造状态账户的 PDA 签名种子：("program_state", bump)
func StateSignerSeeds(bump uint8) runtime.SignerSeeds {
	return runtime.SignerSeeds{
		[]byte(consts.ProgramStateSeed),
		{bump},
	}
}
