package channel

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

type QuorumPolicy func(digest common.Hash, sigs []hexutil.Bytes, players []common.Address) error

func RecoverSigner(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrSignatureInvalid
	}

	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		return common.Address{}, ErrSignatureInvalid
	}

	return crypto.PubkeyToAddress(*pub), nil
}

func PositionalQuorum(digest common.Hash, sigs []hexutil.Bytes, players []common.Address) error {
	for i, sig := range sigs {
		signer, err := RecoverSigner(digest, sig)
		if err != nil {
			return err
		}

		if signer != players[i] {
			return ErrSignatureInvalid
		}
	}

	return nil
}

func UnorderedPairQuorum(digest common.Hash, sigs []hexutil.Bytes, players []common.Address) error {
	first, err := RecoverSigner(digest, sigs[0])
	if err != nil {
		return err
	}

	second, err := RecoverSigner(digest, sigs[1])
	if err != nil {
		return err
	}

	if first == players[0] && second == players[1] {
		return nil
	}

	if first == players[1] && second == players[0] {
		return nil
	}

	return ErrSignatureInvalid
}

func OrderedPlayers(players []common.Address) bool {
	for i := 1; i < len(players); i++ {
		if bytes.Compare(players[i-1].Bytes(), players[i].Bytes()) >= 0 {
			return false
		}
	}

	return true
}
