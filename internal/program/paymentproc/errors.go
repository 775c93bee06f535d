// Package paymentproc 实现支付处理合约的链上核心：
// 账户校验、owner/admin 授权状态机、以及对 SPL Token / Token-2022
// 双标准统一的转账指令构造。
package paymentproc

import "errors"

// 合约错误码。每种错误直接中止本次调用，调用原子生效或完全不生效，无重试语义。
var (
	// ErrUnauthorizedAccess 调用者既不是 owner 也不是 admin
	ErrUnauthorizedAccess = errors.New("unauthorized access - only owner or admin can perform this action")

	// ErrOnlyOwnerCanChangeOwner admin 无权转移 owner，只有 owner 本人可以
	ErrOnlyOwnerCanChangeOwner = errors.New("only the owner can change the program owner")

	// ErrAdminAlreadyExists 重复添加同一 admin
	ErrAdminAlreadyExists = errors.New("admin already exists")

	// ErrAdminNotFound 移除不存在的 admin
	ErrAdminNotFound = errors.New("admin not found")

	// ErrInsufficientFunds 托管账户余额（或租金豁免后的原生余额）不足
	ErrInsufficientFunds = errors.New("insufficient funds in program token account")

	// ErrInvalidTokenMint 传入 mint 与部署期固定的受理 mint 不一致
	ErrInvalidTokenMint = errors.New("invalid token mint")

	// ErrInvalidTokenProgram token program 不是受支持的两种标准之一，
	// 或账户的 owner program 与传入的 token program 不一致
	ErrInvalidTokenProgram = errors.New("invalid token program - only SPL Token and Token 2022 programs are accepted")

	// ErrInvalidTokenAccount 账户数据过短、字段无法解析或 mint/holder 不匹配
	ErrInvalidTokenAccount = errors.New("invalid token account - account data is malformed or constraints not met")

	// ErrStateAlreadyInitialized 程序状态账户重复初始化
	ErrStateAlreadyInitialized = errors.New("program state already initialized")

	// ErrInvalidStateAccount 程序状态账户数据损坏或判别符不符
	ErrInvalidStateAccount = errors.New("invalid program state account")
)
