package channel_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"

	channel "github.com/celer-network/capps-go/internal/pkg/channel"
)

const testBucket = "channel:test"

func openTestDB(t *testing.T) *bbolt.DB {
	t.Helper()

	db, err := bbolt.Open(filepath.Join(t.TempDir(), "capps.db"), 0600, &bbolt.Options{Timeout: time.Second})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(testBucket))

		return err
	})
	require.NoError(t, err)

	return db
}

func testEchoRecord(name string, seqNum uint64) *echoRecord {
	return &echoRecord{
		Core: channel.Core{
			ChannelID: crypto.Keccak256Hash([]byte(name)),
			Players:   nil,
			Nonce:     1,
			SeqNum:    seqNum,
			Timeout:   10,
			Deadline:  0,
			Status:    channel.StatusSettle,
		},
		Payload: hexutil.Bytes{0x01},
	}
}

func TestBoltRepository(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := channel.NewBoltRepository(db, testBucket, blankEchoRecord)

	rec := testEchoRecord("channel-1", 2)
	id := rec.ChannelID

	_, err := repo.Get(id)
	assert.ErrorIs(t, err, channel.ErrNotFound)

	err = repo.Insert(id, rec)
	require.NoError(t, err)

	err = repo.Insert(id, rec)
	assert.ErrorIs(t, err, channel.ErrAlreadyExists)

	loaded, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)

	err = repo.Mutate(id, func(rec *echoRecord) error {
		rec.SeqNum = 9

		return nil
	})
	require.NoError(t, err)

	loaded, err = repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), loaded.SeqNum)
}

func TestBoltRepositoryRollsBackFailedMutation(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := channel.NewBoltRepository(db, testBucket, blankEchoRecord)

	rec := testEchoRecord("channel-2", 2)
	id := rec.ChannelID

	err := repo.Insert(id, rec)
	require.NoError(t, err)

	err = repo.Mutate(id, func(rec *echoRecord) error {
		rec.SeqNum = 99

		return channel.ErrStaleSequence
	})
	assert.ErrorIs(t, err, channel.ErrStaleSequence)

	loaded, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), loaded.SeqNum)
}

func TestBoltRepositoryMissingBucket(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := channel.NewBoltRepository(db, "channel:missing", blankEchoRecord)

	_, err := repo.Get(crypto.Keccak256Hash([]byte("channel-3")))
	assert.ErrorIs(t, err, channel.ErrBucketNotFound)
}

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	repo := channel.NewMemoryRepository(blankEchoRecord)

	rec := testEchoRecord("channel-4", 2)
	id := rec.ChannelID

	_, err := repo.Get(id)
	assert.ErrorIs(t, err, channel.ErrNotFound)

	err = repo.Insert(id, rec)
	require.NoError(t, err)

	err = repo.Insert(id, rec)
	assert.ErrorIs(t, err, channel.ErrAlreadyExists)

	loaded, err := repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)

	err = repo.Mutate(id, func(rec *echoRecord) error {
		rec.SeqNum = 9

		return channel.ErrStaleSequence
	})
	assert.ErrorIs(t, err, channel.ErrStaleSequence)

	loaded, err = repo.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), loaded.SeqNum)
}
