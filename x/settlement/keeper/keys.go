package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// JobKeyPrefix is the prefix for job storage
	JobKeyPrefix = []byte{0x10}

	// NextJobIDKey is the key for the next job ID counter
	NextJobIDKey = []byte{0x11}

	// JobsByRenterPrefix is the prefix for indexing jobs by renter
	JobsByRenterPrefix = []byte{0x12}

	// JobsByHostPrefix is the prefix for indexing jobs by host
	JobsByHostPrefix = []byte{0x13}

	// JobsByStatusPrefix is the prefix for indexing jobs by status
	JobsByStatusPrefix = []byte{0x14}

	// EscrowKeyPrefix is the prefix for escrow storage
	EscrowKeyPrefix = []byte{0x20}

	// NextEscrowIDKey is the key for the next escrow ID counter
	NextEscrowIDKey = []byte{0x21}

	// ProofKeyPrefix is the prefix for proof record storage (one per job)
	ProofKeyPrefix = []byte{0x30}

	// ChallengeKeyPrefix is the prefix for challenge storage
	ChallengeKeyPrefix = []byte{0x31}

	// NextChallengeIDKey is the key for the next challenge ID counter
	NextChallengeIDKey = []byte{0x32}

	// PendingChallengeByJobPrefix tracks the open challenge per job.
	// Key: prefix + jobID -> challengeID. At most one pending challenge
	// per job at a time.
	PendingChallengeByJobPrefix = []byte{0x33}

	// ReputationKeyPrefix is the prefix for host reputation storage
	ReputationKeyPrefix = []byte{0x40}

	// RatedJobKeyPrefix is the prefix for (host, job) rated flags
	RatedJobKeyPrefix = []byte{0x41}

	// StakerKeyPrefix is the prefix for staker position storage
	StakerKeyPrefix = []byte{0x50}

	// RewardDebtKeyPrefix is the prefix for (staker, denom) reward debt
	RewardDebtKeyPrefix = []byte{0x51}

	// RewardTokenKeyPrefix is the prefix for per-denom reward accumulators
	RewardTokenKeyPrefix = []byte{0x52}

	// TotalStakedKey is the key for the pool-wide staked total
	TotalStakedKey = []byte{0x53}
)

// JobKey returns the store key for a job
func JobKey(jobID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, jobID)
	return append(JobKeyPrefix, bz...)
}

// JobByRenterKey returns the index key for jobs by renter
func JobByRenterKey(renter sdk.AccAddress, jobID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(JobsByRenterPrefix, renter.Bytes()...), idBz...)
}

// JobByHostKey returns the index key for jobs by host
func JobByHostKey(host sdk.AccAddress, jobID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(JobsByHostPrefix, host.Bytes()...), idBz...)
}

// JobByStatusKey returns the index key for jobs by status
func JobByStatusKey(status uint32, jobID uint64) []byte {
	statusBz := make([]byte, 4)
	binary.BigEndian.PutUint32(statusBz, status)
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(JobsByStatusPrefix, statusBz...), idBz...)
}

// JobByStatusPrefixForStatus returns the prefix for all jobs in one status
func JobByStatusPrefixForStatus(status uint32) []byte {
	statusBz := make([]byte, 4)
	binary.BigEndian.PutUint32(statusBz, status)
	return append(JobsByStatusPrefix, statusBz...)
}

// EscrowKey returns the store key for an escrow
func EscrowKey(escrowID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, escrowID)
	return append(EscrowKeyPrefix, bz...)
}

// ProofKey returns the store key for a job's proof record
func ProofKey(jobID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, jobID)
	return append(ProofKeyPrefix, bz...)
}

// ChallengeKey returns the store key for a challenge
func ChallengeKey(challengeID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, challengeID)
	return append(ChallengeKeyPrefix, bz...)
}

// PendingChallengeByJobKey returns the pending-challenge index key for a job
func PendingChallengeByJobKey(jobID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, jobID)
	return append(PendingChallengeByJobPrefix, bz...)
}

// ReputationKey returns the store key for a host's reputation
func ReputationKey(host sdk.AccAddress) []byte {
	return append(ReputationKeyPrefix, host.Bytes()...)
}

// RatedJobKey returns the store key for a (host, job) rated flag
func RatedJobKey(host sdk.AccAddress, jobID uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	return append(append(RatedJobKeyPrefix, host.Bytes()...), idBz...)
}

// StakerKey returns the store key for a staker position
func StakerKey(staker sdk.AccAddress) []byte {
	return append(StakerKeyPrefix, staker.Bytes()...)
}

// RewardDebtKey returns the store key for a (staker, denom) reward debt
func RewardDebtKey(staker sdk.AccAddress, denom string) []byte {
	key := make([]byte, 0, len(RewardDebtKeyPrefix)+1+len(staker.Bytes())+len(denom))
	key = append(key, RewardDebtKeyPrefix...)
	key = append(key, byte(len(staker.Bytes())))
	key = append(key, staker.Bytes()...)
	key = append(key, []byte(denom)...)
	return key
}

// RewardDebtPrefixForStaker returns the prefix for all of a staker's debts
func RewardDebtPrefixForStaker(staker sdk.AccAddress) []byte {
	key := make([]byte, 0, len(RewardDebtKeyPrefix)+1+len(staker.Bytes()))
	key = append(key, RewardDebtKeyPrefix...)
	key = append(key, byte(len(staker.Bytes())))
	key = append(key, staker.Bytes()...)
	return key
}

// RewardTokenKey returns the store key for a reward denom's accumulator
func RewardTokenKey(denom string) []byte {
	return append(RewardTokenKeyPrefix, []byte(denom)...)
}

// GetIDFromBytes converts big-endian bytes to an entity ID
func GetIDFromBytes(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}
