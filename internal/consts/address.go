package consts

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// Programs
	SystemProgramStr    = "11111111111111111111111111111111"
	TokenProgramStr     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	RentSysvarStr       = "SysvarRent111111111111111111111111111111111"

	// 支付处理合约（主网部署地址）
	PaymentProcessorProgramStr = "2RHgoS9Xdx8DcA9aCPzK9afQUJfZGip7w1VU4VkiTp2P"

	// 合约唯一接受的支付代币 mint（部署期固定，不可运行时配置）
	AcceptedMintStr = "Df3shQQ3qZ9qyLfrWTqfjP2TSSAqMvM5zxb2NXQQKaXh"
)

// PDA 派生种子（与链上程序保持一致，改动会导致地址不匹配）
const (
	ProgramStateSeed        = "program_state"
	ProgramTokenAccountSeed = "program_token_account"
)
