package paymentproc

import (
	"testing"

	"payment-processor-sol/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed byte) types.Pubkey {
	var p types.Pubkey
	for i := range p {
		p[i] = seed
	}
	return p
}

func TestProgramState_Roundtrip(t *testing.T) {
	state := &ProgramState{
		Owner:  testKey(0xA1),
		Admins: []types.Pubkey{testKey(0xB1), testKey(0xB2)},
		Bump:   253,
	}

	data, err := state.Serialize()
	require.NoError(t, err)
	// 线格式：45 字节基础 + 每 admin 32 字节
	assert.Equal(t, StateBaseSize+2*32, len(data))
	assert.Equal(t, state.Space(), len(data))

	got, err := DeserializeProgramState(data)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestDeserializeProgramState_Invalid(t *testing.T) {
	// 过短
	_, err := DeserializeProgramState(make([]byte, StateBaseSize-1))
	assert.ErrorIs(t, err, ErrInvalidStateAccount)

	// 判别符不符（如传入了别的账户）
	data := make([]byte, StateBaseSize)
	data[0] = 0xFF
	_, err = DeserializeProgramState(data)
	assert.ErrorIs(t, err, ErrInvalidStateAccount)
}

func TestIsOwnerOrAdmin(t *testing.T) {
	owner := testKey(0xA1)
	admins := []types.Pubkey{testKey(0xB1), testKey(0xB2)}
	state := &ProgramState{Owner: owner, Admins: admins}

	// owner 与 admin 是两条独立授权通道，逻辑或组合
	assert.True(t, state.IsOwnerOrAdmin(owner))
	assert.False(t, state.IsAdmin(owner))
	for _, admin := range admins {
		assert.True(t, state.IsAdmin(admin))
		assert.True(t, state.IsOwnerOrAdmin(admin))
	}
	assert.False(t, state.IsOwnerOrAdmin(testKey(0xC1)))

	// 空 admin 列表
	empty := &ProgramState{Owner: owner}
	assert.True(t, empty.IsOwnerOrAdmin(owner))
	assert.False(t, empty.IsOwnerOrAdmin(testKey(0xB1)))
}
