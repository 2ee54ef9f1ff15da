package shared

// SystemParticipant is the pseudo-account identifier on the far side of
// deposits and withdrawals. Money entering or leaving the wallet from
// outside is recorded against this sentinel instead of a real account.
const SystemParticipant = "system"

// TransactionKind defines possible wallet movements
type TransactionKind string

const (
	TransactionKindSend     TransactionKind = "send"
	TransactionKindDeposit  TransactionKind = "deposit"
	TransactionKindWithdraw TransactionKind = "withdraw"

	// TransactionKindReceive is declared for API completeness. Transfers
	// are recorded once as "send" and attributed to both parties by
	// querying on the participant IDs, so no operation produces it.
	TransactionKindReceive TransactionKind = "receive"
)

// TransactionStatus defines transaction states
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
