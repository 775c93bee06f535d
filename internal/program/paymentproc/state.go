package paymentproc

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"payment-processor-sol/internal/types"

	"github.com/near/borsh-go"
)

// StateBaseSize 是空 admin 列表时状态账户的大小：
// 8 字节判别符 + 32 字节 owner + 4 字节 admin 数量 + 1 字节 bump。
// 每增减一个 admin，账户 realloc ±32 字节。
const StateBaseSize = 8 + 32 + 4 + 1

// stateDiscriminator 是 Anchor 账户判别符：sha256("account:ProgramState") 前 8 字节
var stateDiscriminator = func() [8]byte {
	sum := sha256.Sum256([]byte("account:ProgramState"))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}()

// ProgramState 是合约的单例授权状态。
// owner 与 admins 是两条独立的授权通道，按逻辑或组合；两者之间不做去重。
type ProgramState struct {
	Owner  types.Pubkey   // 唯一 owner，仅 owner 本人可替换
	Admins []types.Pubkey // 有序 admin 列表，不含重复项
	Bump   uint8          // PDA 派生证明字节，创建后不再变化
}

// IsAdmin 判断 pubkey 是否在 admin 列表中
func (s *ProgramState) IsAdmin(pubkey types.Pubkey) bool {
	for _, admin := range s.Admins {
		if admin == pubkey {
			return true
		}
	}
	return false
}

// IsOwnerOrAdmin 判断 pubkey 是否具备 owner 或 admin 权限
func (s *ProgramState) IsOwnerOrAdmin(pubkey types.Pubkey) bool {
	return s.Owner == pubkey || s.IsAdmin(pubkey)
}

// Space 返回当前 admin 数量下账户应有的字节数
func (s *ProgramState) Space() int {
	return StateBaseSize + len(s.Admins)*32
}

// Serialize 序列化为链上布局：8 字节判别符 + borsh(owner, admins, bump)
func (s *ProgramState) Serialize() ([]byte, error) {
	body, err := borsh.Serialize(*s)
	if err != nil {
		return nil, fmt.Errorf("serialize program state: %w", err)
	}
	out := make([]byte, 0, 8+len(body))
	out = append(out, stateDiscriminator[:]...)
	out = append(out, body...)
	return out, nil
}

// DeserializeProgramState 从账户数据还原 ProgramState，校验判别符
func DeserializeProgramState(data []byte) (*ProgramState, error) {
	if len(data) < StateBaseSize {
		return nil, fmt.Errorf("%w: data too short, got %d bytes", ErrInvalidStateAccount, len(data))
	}
	if !bytes.Equal(data[:8], stateDiscriminator[:]) {
		return nil, fmt.Errorf("%w: discriminator mismatch", ErrInvalidStateAccount)
	}
	state := &ProgramState{}
	if err := borsh.Deserialize(state, data[8:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStateAccount, err)
	}
	return state, nil
}
