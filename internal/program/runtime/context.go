package runtime

import (
	"errors"
	"fmt"
)

// 账户层面的通用错误（对应宿主在账户装载阶段的约束检查）
var (
	ErrInvalidNumberOfAccounts = errors.New("invalid number of accounts")
	ErrAccountNotSigner        = errors.New("account is not a signer")
	ErrAccountNotWritable      = errors.New("account is not writable")
)

// Invoker 是 CPI 派发接口。程序只负责构造指令，真正的执行由宿主完成；
// InvokeSigned 额外携带 PDA 种子，宿主据此附加程序签名。
type Invoker interface {
	Invoke(ix Instruction, accounts []*AccountInfo) error
	InvokeSigned(ix Instruction, accounts []*AccountInfo, seeds SignerSeeds) error
}

// Rent 提供租金豁免余额下限的查询
type Rent interface {
	MinimumBalance(dataLen int) uint64
}

// Clock 提供链上时钟
type Clock interface {
	UnixTimestamp() int64
}

// ExecutionContext 承载一次程序调用的全部宿主输入：
// 有序账户列表 + CPI / 租金 / 时钟能力 + 事件输出通道。
// 执行模型严格单线程，一次调用内独占全部账户，无需加锁。
type ExecutionContext struct {
	Accounts []*AccountInfo
	Invoker  Invoker
	Rent     Rent
	Clock    Clock

	events [][]byte // 本次调用发出的事件（已编码）
	logs   []string
}

// Account 返回第 i 个账户，越界时返回 ErrInvalidNumberOfAccounts
func (ctx *ExecutionContext) Account(i int) (*AccountInfo, error) {
	if i < 0 || i >= len(ctx.Accounts) {
		return nil, fmt.Errorf("%w: index %d out of %d", ErrInvalidNumberOfAccounts, i, len(ctx.Accounts))
	}
	return ctx.Accounts[i], nil
}

// AccountCount 返回本次调用携带的账户数量
func (ctx *ExecutionContext) AccountCount() int {
	return len(ctx.Accounts)
}

// EmitEvent 通过宿主日志通道发布一条已编码事件
func (ctx *ExecutionContext) EmitEvent(data []byte) {
	ctx.events = append(ctx.events, data)
}

// Events 返回本次调用已发出的事件（按发出顺序）
func (ctx *ExecutionContext) Events() [][]byte {
	return ctx.events
}

// Log 记录一条程序日志
func (ctx *ExecutionContext) Log(format string, args ...interface{}) {
	ctx.logs = append(ctx.logs, fmt.Sprintf(format, args...))
}

// Logs 返回本次调用累计的日志
func (ctx *ExecutionContext) Logs() []string {
	return ctx.logs
}
