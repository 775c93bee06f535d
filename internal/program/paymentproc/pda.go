package paymentproc

import (
	"fmt"

	"payment-processor-sol/internal/consts"
	"payment-processor-sol/internal/types"

	"github.com/blocto/solana-go-sdk/common"
)

// StateAddress 派生程序状态 PDA 的规范地址与 bump。
func StateAddress(programID types.Pubkey) (types.Pubkey, uint8, error) {
	return findProgramAddress(programID, [][]byte{[]byte(consts.ProgramStateSeed)})
}

// CustodyAddress 派生某 mint 对应托管账户 PDA 的规范地址与 bump。
func CustodyAddress(programID, mint types.Pubkey) (types.Pubkey, uint8, error) {
	return findProgramAddress(programID, [][]byte{
		[]byte(consts.ProgramTokenAccountSeed),
		mint.Bytes(),
	})
}

// CustodyAddressForBump 用给定 bump 重建托管账户地址，bump 无效（落点在曲线上）时报错。
func CustodyAddressForBump(programID, mint types.Pubkey, bump uint8) (types.Pubkey, error) {
	pub, err := common.CreateProgramAddress([][]byte{
		[]byte(consts.ProgramTokenAccountSeed),
		mint.Bytes(),
		{bump},
	}, common.PublicKeyFromBytes(programID.Bytes()))
	if err != nil {
		return types.Pubkey{}, fmt.Errorf("create custody address: %w", err)
	}
	return types.TryPubkeyFromBytes(pub.Bytes())
}

func findProgramAddress(programID types.Pubkey, seeds [][]byte) (types.Pubkey, uint8, error) {
	pub, bump, err := common.FindProgramAddress(seeds, common.PublicKeyFromBytes(programID.Bytes()))
	if err != nil {
		return types.Pubkey{}, 0, fmt.Errorf("find program address: %w", err)
	}
	key, err := types.TryPubkeyFromBytes(pub.Bytes())
	if err != nil {
		return types.Pubkey{}, 0, err
	}
	return key, bump, nil
}
