package paymentproc

import (
	"fmt"

	"payment-processor-sol/internal/consts"
	"payment-processor-sol/internal/program/runtime"
	"payment-processor-sol/internal/types"
)

// Processor 实现合约的七个对外操作。
// 每个操作在任何变更或转账之前完成全部授权与账户形状校验，
// 校验失败即中止且零副作用；宿主保证整个调用的原子性。
type Processor struct {
	ProgramID    types.Pubkey // 合约自身地址
	AcceptedMint types.Pubkey // 部署期固定的受理 mint
}

func NewProcessor() *Processor {
	return &Processor{
		ProgramID:    consts.PaymentProcessorProgram,
		AcceptedMint: consts.AcceptedMint,
	}
}

// loadState 从账户读取并校验程序状态
func loadState(acc *runtime.AccountInfo) (*ProgramState, error) {
	return DeserializeProgramState(acc.Data)
}

// storeState 序列化状态并按需 realloc 账户到精确大小。
// 尺寸必须精确到 base + 32*n：多留的尾部字节会被误读成多余的 admin 项，
// 少留则截断仍然有效的 admin 数据。
func storeState(acc *runtime.AccountInfo, state *ProgramState) error {
	data, err := state.Serialize()
	if err != nil {
		return err
	}
	if err := acc.Realloc(len(data)); err != nil {
		return err
	}
	copy(acc.Data, data)
	return nil
}

// requireSigner 校验账户携带签名
func requireSigner(acc *runtime.AccountInfo) error {
	if !acc.IsSigner {
		return fmt.Errorf("%w: %s", runtime.ErrAccountNotSigner, acc.Pubkey)
	}
	return nil
}

// requireWritable 校验账户可写
func requireWritable(acc *runtime.AccountInfo) error {
	if !acc.IsWritable {
		return fmt.Errorf("%w: %s", runtime.ErrAccountNotWritable, acc.Pubkey)
	}
	return nil
}

// Initialize 创建程序状态单例。
// 账户布局：
//
//	[0] program_state (writable) - 状态 PDA，宿主已按 seeds ["program_state"] 创建
//	[1] payer (signer, writable)
//	[2] system_program
//
// bump 为宿主派生状态 PDA 时得到的证明字节，存入后不再变化。
func (p *Processor) Initialize(ctx *runtime.ExecutionContext, owner types.Pubkey, bump uint8) error {
	if ctx.AccountCount() < 3 {
		return fmt.Errorf("%w: initialize requires 3 accounts, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	stateAcc, err := ctx.Account(0)
	if err != nil {
		return err
	}
	payer, err := ctx.Account(1)
	if err != nil {
		return err
	}
	if err := requireWritable(stateAcc); err != nil {
		return err
	}
	if err := requireSigner(payer); err != nil {
		return err
	}

	// 重复初始化由宿主的 init 约束拦截；这里兜底校验判别符
	if len(stateAcc.Data) >= 8 {
		if _, err := DeserializeProgramState(stateAcc.Data); err == nil {
			return ErrStateAlreadyInitialized
		}
	}

	state := &ProgramState{
		Owner:  owner,
		Admins: []types.Pubkey{},
		Bump:   bump,
	}
	if err := storeState(stateAcc, state); err != nil {
		return err
	}

	ctx.Log("Payment processor initialized with owner: %s", owner)
	return nil
}

// ProcessPayment 接受一笔用户支付：校验用户代币账户后，将 amount 从用户
// 账户转入托管账户；托管账户首次使用时在此懒初始化。
// 账户布局：
//
//	[0] user (signer, writable)
//	[1] user_token_account (writable)
//	[2] program_token_account (writable) - 托管 PDA，seeds ["program_token_account", mint]
//	[3] token_mint
//	[4] token_program
//	[5] system_program
//	[6] rent sysvar
func (p *Processor) ProcessPayment(ctx *runtime.ExecutionContext, amount uint64) error {
	if ctx.AccountCount() < 7 {
		return fmt.Errorf("%w: process_payment requires 7 accounts, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	user, _ := ctx.Account(0)
	userToken, _ := ctx.Account(1)
	custody, _ := ctx.Account(2)
	mint, _ := ctx.Account(3)
	tokenProgram, _ := ctx.Account(4)
	rentSysvar, _ := ctx.Account(6)

	if err := requireSigner(user); err != nil {
		return err
	}
	if err := requireWritable(userToken); err != nil {
		return err
	}
	if err := requireWritable(custody); err != nil {
		return err
	}

	// 受理 mint 为部署期常量
	if !mint.Pubkey.Equals(p.AcceptedMint) {
		return fmt.Errorf("%w: got %s, accepted %s", ErrInvalidTokenMint, mint.Pubkey, p.AcceptedMint)
	}

	// token program 必须是两种受支持标准之一
	if !consts.IsSupportedTokenProgram(tokenProgram.Pubkey) {
		return fmt.Errorf("%w: %s", ErrInvalidTokenProgram, tokenProgram.Pubkey)
	}

	// 用户代币账户可能来自任一标准，按字节布局手工校验
	if !userToken.Owner.Equals(tokenProgram.Pubkey) {
		return fmt.Errorf("%w: user token account owned by %s, expected %s",
			ErrInvalidTokenProgram, userToken.Owner, tokenProgram.Pubkey)
	}
	userRecord, err := ParseTokenRecord(userToken.Data)
	if err != nil {
		return err
	}
	if !userRecord.Mint.Equals(mint.Pubkey) {
		return fmt.Errorf("%w: user token account mint mismatch", ErrInvalidTokenAccount)
	}
	if !userRecord.Owner.Equals(user.Pubkey) {
		return fmt.Errorf("%w: user token account holder mismatch", ErrInvalidTokenAccount)
	}

	// 托管账户状态机：Uninitialized -> Active，每个 mint 至多发生一次
	if IsUninitializedTokenAccount(custody.Data) {
		initIx := NewInitializeAccountInstruction(
			tokenProgram.Pubkey, custody.Pubkey, mint.Pubkey, custody.Pubkey, rentSysvar.Pubkey)
		cpiAccounts := []*runtime.AccountInfo{custody, mint, custody, rentSysvar, tokenProgram}
		if err := ctx.Invoker.Invoke(initIx, cpiAccounts); err != nil {
			return err
		}
		ctx.Log("Program token account initialized for mint: %s", mint.Pubkey)
	} else {
		if !custody.Owner.Equals(tokenProgram.Pubkey) {
			return fmt.Errorf("%w: program token account owned by %s, expected %s",
				ErrInvalidTokenProgram, custody.Owner, tokenProgram.Pubkey)
		}
		custodyRecord, err := ParseTokenRecord(custody.Data)
		if err != nil {
			return err
		}
		if !custodyRecord.Mint.Equals(mint.Pubkey) {
			return fmt.Errorf("%w: program token account mint mismatch", ErrInvalidTokenAccount)
		}
	}

	// 用户签名授权的转账；用户余额不足等下游失败原样向上传播
	transferIx := NewTransferInstruction(
		tokenProgram.Pubkey, userToken.Pubkey, custody.Pubkey, user.Pubkey, amount)
	cpiAccounts := []*runtime.AccountInfo{userToken, custody, user, tokenProgram}
	if err := ctx.Invoker.Invoke(transferIx, cpiAccounts); err != nil {
		return err
	}

	event := &PaymentEvent{
		User:      user.Pubkey,
		Amount:    amount,
		Timestamp: ctx.Clock.UnixTimestamp(),
		TokenMint: mint.Pubkey,
	}
	encoded, err := event.Encode()
	if err != nil {
		return err
	}
	ctx.EmitEvent(encoded)

	ctx.Log("Payment processed: %d tokens from %s", amount, user.Pubkey)
	return nil
}

// AddAdmin 追加一个 admin，状态账户精确扩容 32 字节。
// 账户布局：
//
//	[0] program_state (writable)
//	[1] authority (signer, writable)
//	[2] system_program
func (p *Processor) AddAdmin(ctx *runtime.ExecutionContext, newAdmin types.Pubkey) error {
	if ctx.AccountCount() < 3 {
		return fmt.Errorf("%w: add_admin requires 3 accounts, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	stateAcc, _ := ctx.Account(0)
	authority, _ := ctx.Account(1)

	if err := requireWritable(stateAcc); err != nil {
		return err
	}
	if err := requireSigner(authority); err != nil {
		return err
	}

	state, err := loadState(stateAcc)
	if err != nil {
		return err
	}
	if !state.IsOwnerOrAdmin(authority.Pubkey) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAccess, authority.Pubkey)
	}
	if state.IsAdmin(newAdmin) {
		return fmt.Errorf("%w: %s", ErrAdminAlreadyExists, newAdmin)
	}

	state.Admins = append(state.Admins, newAdmin)
	if err := storeState(stateAcc, state); err != nil {
		return err
	}

	ctx.Log("Admin added: %s", newAdmin)
	return nil
}

// RemoveAdmin 移除一个 admin，状态账户精确缩容 32 字节（下限为空列表大小）。
// 账户布局同 AddAdmin。
func (p *Processor) RemoveAdmin(ctx *runtime.ExecutionContext, adminToRemove types.Pubkey) error {
	if ctx.AccountCount() < 3 {
		return fmt.Errorf("%w: remove_admin requires 3 accounts, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	stateAcc, _ := ctx.Account(0)
	authority, _ := ctx.Account(1)

	if err := requireWritable(stateAcc); err != nil {
		return err
	}
	if err := requireSigner(authority); err != nil {
		return err
	}

	state, err := loadState(stateAcc)
	if err != nil {
		return err
	}
	if !state.IsOwnerOrAdmin(authority.Pubkey) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAccess, authority.Pubkey)
	}

	pos := -1
	for i, admin := range state.Admins {
		if admin == adminToRemove {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrAdminNotFound, adminToRemove)
	}

	// 保序移除，其余 admin 相对顺序不变
	state.Admins = append(state.Admins[:pos], state.Admins[pos+1:]...)
	if err := storeState(stateAcc, state); err != nil {
		return err
	}

	ctx.Log("Admin removed: %s", adminToRemove)
	return nil
}

// ChangeOwner 整体替换 owner。admin 身份不足以执行此操作，必须是 owner 本人。
// 账户布局：
//
//	[0] program_state (writable)
//	[1] authority (signer)
func (p *Processor) ChangeOwner(ctx *runtime.ExecutionContext, newOwner types.Pubkey) error {
	if ctx.AccountCount() < 2 {
		return fmt.Errorf("%w: change_owner requires 2 accounts, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	stateAcc, _ := ctx.Account(0)
	authority, _ := ctx.Account(1)

	if err := requireWritable(stateAcc); err != nil {
		return err
	}
	if err := requireSigner(authority); err != nil {
		return err
	}

	state, err := loadState(stateAcc)
	if err != nil {
		return err
	}
	if !state.Owner.Equals(authority.Pubkey) {
		return fmt.Errorf("%w: %s", ErrOnlyOwnerCanChangeOwner, authority.Pubkey)
	}

	oldOwner := state.Owner
	state.Owner = newOwner
	if err := storeState(stateAcc, state); err != nil {
		return err
	}

	ctx.Log("Owner changed from %s to %s", oldOwner, newOwner)
	return nil
}

// GetAdmins 返回 admin 列表的副本。只要求状态账户存在，不做权限校验。
// 账户布局：
//
//	[0] program_state
func (p *Processor) GetAdmins(ctx *runtime.ExecutionContext) ([]types.Pubkey, error) {
	if ctx.AccountCount() < 1 {
		return nil, fmt.Errorf("%w: get_admins requires 1 account, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	stateAcc, _ := ctx.Account(0)

	state, err := loadState(stateAcc)
	if err != nil {
		return nil, err
	}
	admins := make([]types.Pubkey, len(state.Admins))
	copy(admins, state.Admins)
	return admins, nil
}

// Withdraw 由 owner/admin 将托管资金转出到任意目标代币账户。
// 转账授权方是托管账户自身：没有任何私钥持有者，宿主根据
// ("program_token_account", mint, bump) 种子附加程序签名。
// 账户布局：
//
//	[0] program_state
//	[1] authority (signer, writable)
//	[2] program_token_account (writable)
//	[3] destination_token_account (writable)
//	[4] token_mint
//	[5] token_program
//
// custodyBump 为宿主派生托管 PDA 时得到的证明字节。
func (p *Processor) Withdraw(ctx *runtime.ExecutionContext, amount uint64, custodyBump uint8) error {
	if ctx.AccountCount() < 6 {
		return fmt.Errorf("%w: withdraw requires 6 accounts, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	stateAcc, _ := ctx.Account(0)
	authority, _ := ctx.Account(1)
	custody, _ := ctx.Account(2)
	destination, _ := ctx.Account(3)
	mint, _ := ctx.Account(4)
	tokenProgram, _ := ctx.Account(5)

	if err := requireSigner(authority); err != nil {
		return err
	}
	if err := requireWritable(custody); err != nil {
		return err
	}
	if err := requireWritable(destination); err != nil {
		return err
	}

	state, err := loadState(stateAcc)
	if err != nil {
		return err
	}
	if !state.IsOwnerOrAdmin(authority.Pubkey) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAccess, authority.Pubkey)
	}

	if !consts.IsSupportedTokenProgram(tokenProgram.Pubkey) {
		return fmt.Errorf("%w: %s", ErrInvalidTokenProgram, tokenProgram.Pubkey)
	}

	// 托管账户：余额必须覆盖提现额
	if !custody.Owner.Equals(tokenProgram.Pubkey) {
		return fmt.Errorf("%w: program token account owned by %s, expected %s",
			ErrInvalidTokenProgram, custody.Owner, tokenProgram.Pubkey)
	}
	custodyRecord, err := ParseTokenRecord(custody.Data)
	if err != nil {
		return err
	}
	if custodyRecord.Amount < amount {
		return fmt.Errorf("%w: have %d, want %d", ErrInsufficientFunds, custodyRecord.Amount, amount)
	}

	// 目标账户：mint 必须一致
	if !destination.Owner.Equals(tokenProgram.Pubkey) {
		return fmt.Errorf("%w: destination token account owned by %s, expected %s",
			ErrInvalidTokenProgram, destination.Owner, tokenProgram.Pubkey)
	}
	destRecord, err := ParseTokenRecord(destination.Data)
	if err != nil {
		return err
	}
	if !destRecord.Mint.Equals(mint.Pubkey) {
		return fmt.Errorf("%w: destination token account mint mismatch", ErrInvalidTokenAccount)
	}

	transferIx := NewTransferInstruction(
		tokenProgram.Pubkey, custody.Pubkey, destination.Pubkey, custody.Pubkey, amount)
	cpiAccounts := []*runtime.AccountInfo{custody, destination, custody, tokenProgram}
	seeds := CustodySignerSeeds(mint.Pubkey, custodyBump)
	if err := ctx.Invoker.InvokeSigned(transferIx, cpiAccounts, seeds); err != nil {
		return err
	}

	ctx.Log("Withdrawal processed: %d tokens by %s to %s", amount, authority.Pubkey, destination.Pubkey)
	return nil
}

// WithdrawSol 从状态账户直接转出原生余额（lamport 账本调整，非代币转账）。
// 必须为状态账户保留租金豁免下限，转出后低于下限即拒绝。
// 账户布局：
//
//	[0] program_state (writable)
//	[1] authority (signer, writable)
//	[2] destination (writable)
func (p *Processor) WithdrawSol(ctx *runtime.ExecutionContext, amount uint64) error {
	if ctx.AccountCount() < 3 {
		return fmt.Errorf("%w: withdraw_sol requires 3 accounts, got %d",
			runtime.ErrInvalidNumberOfAccounts, ctx.AccountCount())
	}
	stateAcc, _ := ctx.Account(0)
	authority, _ := ctx.Account(1)
	destination, _ := ctx.Account(2)

	if err := requireWritable(stateAcc); err != nil {
		return err
	}
	if err := requireSigner(authority); err != nil {
		return err
	}
	if err := requireWritable(destination); err != nil {
		return err
	}

	state, err := loadState(stateAcc)
	if err != nil {
		return err
	}
	if !state.IsOwnerOrAdmin(authority.Pubkey) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedAccess, authority.Pubkey)
	}

	minBalance := ctx.Rent.MinimumBalance(stateAcc.DataLen())
	ctx.Log("Program state balance: %d, Min balance needed: %d, Amount requested: %d",
		stateAcc.Lamports, minBalance, amount)
	// 减法形式判断，amount+minBalance 直接相加在 amount 接近 u64 上限时会回绕
	if stateAcc.Lamports < minBalance || stateAcc.Lamports-minBalance < amount {
		return fmt.Errorf("%w: balance %d, need %d + rent floor %d",
			ErrInsufficientFunds, stateAcc.Lamports, amount, minBalance)
	}

	stateAcc.Lamports -= amount
	destination.Lamports += amount

	ctx.Log("SOL withdrawal processed: %d lamports by %s to %s", amount, authority.Pubkey, destination.Pubkey)
	return nil
}
