package channel

import (
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	SingleSessionAccount = "_single_"
	MultiSessionAccount  = "_multi__"
	SingleGomokuAccount  = "s_gomoku"
	MultiGomokuAccount   = "m_gomoku"
)

const (
	uint128Len = 16
	uint64Len  = 8
)

func appendUint128(buf []byte, value uint64) []byte {
	var tmp [uint128Len]byte

	binary.LittleEndian.PutUint64(tmp[:uint64Len], value)

	return append(buf, tmp[:]...)
}

func appendUint64(buf []byte, value uint64) []byte {
	var tmp [uint64Len]byte

	binary.LittleEndian.PutUint64(tmp[:], value)

	return append(buf, tmp[:]...)
}

func ModuleAddress(tag string) common.Address {
	return common.BytesToAddress([]byte(tag))
}

func DeriveChannelID(module common.Address, nonce uint64, players []common.Address) common.Hash {
	buf := make([]byte, 0, common.AddressLength+uint128Len+len(players)*common.AddressLength)

	buf = append(buf, module.Bytes()...)
	buf = appendUint128(buf, nonce)

	for _, player := range players {
		buf = append(buf, player.Bytes()...)
	}

	return crypto.Keccak256Hash(buf)
}

func EncodeState(seqNum uint64, payload []byte, timeout uint64, channelID common.Hash) []byte {
	buf := make([]byte, 0, uint128Len+len(payload)+uint64Len+common.HashLength)

	buf = appendUint128(buf, seqNum)
	buf = append(buf, payload...)
	buf = appendUint64(buf, timeout)
	buf = append(buf, channelID.Bytes()...)

	return buf
}

func ComputeDigest(state *SignedState) common.Hash {
	return crypto.Keccak256Hash(EncodeState(state.SeqNum, state.Payload, state.Timeout, state.ChannelID))
}

func SignState(state *SignedState, keys ...*ecdsa.PrivateKey) error {
	digest := ComputeDigest(state)

	state.Sigs = make([]hexutil.Bytes, 0, len(keys))

	for _, key := range keys {
		sig, err := crypto.Sign(digest.Bytes(), key)
		if err != nil {
			return fmt.Errorf("failed to sign state: %w", err)
		}

		state.Sigs = append(state.Sigs, sig)
	}

	return nil
}
