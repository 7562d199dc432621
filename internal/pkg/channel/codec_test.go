package channel_test

import (
	"encoding/binary"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	channel "github.com/celer-network/capps-go/internal/pkg/channel"
)

func TestModuleAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, common.HexToAddress("0x5f73696e676c655f"), channel.ModuleAddress(channel.SingleSessionAccount))
	assert.Equal(t, common.HexToAddress("0x5f6d756c74695f5f"), channel.ModuleAddress(channel.MultiSessionAccount))
	assert.Equal(t, common.HexToAddress("0x735f676f6d6f6b75"), channel.ModuleAddress(channel.SingleGomokuAccount))
	assert.Equal(t, common.HexToAddress("0x6d5f676f6d6f6b75"), channel.ModuleAddress(channel.MultiGomokuAccount))
}

func TestEncodeStateLayout(t *testing.T) {
	t.Parallel()

	id := crypto.Keccak256Hash([]byte("channel"))
	payload := []byte{0xaa, 0xbb, 0xcc}

	encoded := channel.EncodeState(7, payload, 42, id)

	require.Len(t, encoded, 16+len(payload)+8+32)

	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(encoded[:8]))
	assert.Equal(t, make([]byte, 8), encoded[8:16])
	assert.Equal(t, payload, encoded[16:19])
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(encoded[19:27]))
	assert.Equal(t, id.Bytes(), encoded[27:])
}

func TestComputeDigest(t *testing.T) {
	t.Parallel()

	id := crypto.Keccak256Hash([]byte("channel"))
	payload := []byte{0x01, 0x02}

	state := &channel.SignedState{
		ChannelID: id,
		SeqNum:    3,
		Payload:   payload,
		Timeout:   10,
		Sigs:      nil,
	}

	expected := crypto.Keccak256Hash(channel.EncodeState(3, payload, 10, id))

	assert.Equal(t, expected, channel.ComputeDigest(state))
}

func TestDeriveChannelID(t *testing.T) {
	t.Parallel()

	module := channel.ModuleAddress(channel.SingleSessionAccount)
	players := []common.Address{
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
	}

	id := channel.DeriveChannelID(module, 1, players)

	assert.Equal(t, id, channel.DeriveChannelID(module, 1, players))
	assert.NotEqual(t, id, channel.DeriveChannelID(module, 2, players))
	assert.NotEqual(t, id, channel.DeriveChannelID(channel.ModuleAddress(channel.MultiSessionAccount), 1, players))
	assert.NotEqual(t, id, channel.DeriveChannelID(module, 1, []common.Address{players[1], players[0]}))
}

func TestSignStateRecoverSigner(t *testing.T) {
	t.Parallel()

	first, err := crypto.GenerateKey()
	require.NoError(t, err)

	second, err := crypto.GenerateKey()
	require.NoError(t, err)

	state := &channel.SignedState{
		ChannelID: crypto.Keccak256Hash([]byte("channel")),
		SeqNum:    3,
		Payload:   hexutil.Bytes{0x01},
		Timeout:   10,
		Sigs:      nil,
	}

	err = channel.SignState(state, first, second)
	require.NoError(t, err)
	require.Len(t, state.Sigs, 2)

	digest := channel.ComputeDigest(state)

	firstSigner, err := channel.RecoverSigner(digest, state.Sigs[0])
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(first.PublicKey), firstSigner)

	secondSigner, err := channel.RecoverSigner(digest, state.Sigs[1])
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(second.PublicKey), secondSigner)
}
