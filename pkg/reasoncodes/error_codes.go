package reasoncodes

type ReasonCode string

const (
	ErrInvalidInput        ReasonCode = "InvalidInput"
	ErrLookupFailed        ReasonCode = "LookupFailed"
	ErrEncryptionFailed    ReasonCode = "EncryptionFailed"
	ErrStorageFailed       ReasonCode = "StorageFailed"
	ErrSignerUnavailable   ReasonCode = "SignerUnavailable"
	ErrSimulationRejected  ReasonCode = "SimulationRejected"
	ErrSubmitFailed        ReasonCode = "SubmitFailed"
	ErrAlreadyExists       ReasonCode = "AlreadyExists"
	ErrAlreadyProcessed    ReasonCode = "AlreadyProcessed"
	ErrConfirmationTimeout ReasonCode = "ConfirmationTimeout"
	ErrIdentityRequired    ReasonCode = "IdentityRequired"
	ErrActionInFlight      ReasonCode = "ActionInFlight"
)
