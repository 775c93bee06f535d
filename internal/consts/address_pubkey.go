package consts

import (
	"payment-processor-sol/internal/types"
)

// 公钥形式的地址常量（types.Pubkey），用于链上比对、性能优化等场景。
var (
	// Programs
	SystemProgram    types.Pubkey
	TokenProgram     types.Pubkey
	TokenProgram2022 types.Pubkey
	RentSysvar       types.Pubkey

	// 支付处理合约
	PaymentProcessorProgram types.Pubkey

	// 接受的支付代币
	AcceptedMint types.Pubkey
)

// init 自动将 base58 字符串地址转换为 types.Pubkey
func init() {
	SystemProgram = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022 = types.PubkeyFromBase58(TokenProgram2022Str)
	RentSysvar = types.PubkeyFromBase58(RentSysvarStr)

	PaymentProcessorProgram = types.PubkeyFromBase58(PaymentProcessorProgramStr)
	AcceptedMint = types.PubkeyFromBase58(AcceptedMintStr)
}

// IsSupportedTokenProgram 判断给定程序是否为受支持的代币标准（SPL Token 或 Token-2022）
func IsSupportedTokenProgram(program types.Pubkey) bool {
	return program == TokenProgram || program == TokenProgram2022
}
