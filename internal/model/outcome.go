package model

// FlushOutcome is the single structured result of one flush run. Exactly one
// outcome is returned per FlushPending call; the engine never propagates raw
// faults to the caller.
type FlushOutcome int

const (
	// FlushSuccess: the staged entry (if any) and every previously queued
	// unflushed report were delivered and marked flushed.
	FlushSuccess FlushOutcome = iota

	// FlushOperationCanceled: the caller's context fired during the run. A
	// prefix of the queue may already be flushed; the rest is safe to re-run.
	FlushOperationCanceled

	// FlushInvalidAuthorizationToken: the endpoint rejected the credential.
	// Retrying without changing the credential will not help.
	FlushInvalidAuthorizationToken

	// FlushWebServiceError: the endpoint answered with a recognized but
	// non-ok code.
	FlushWebServiceError

	// FlushNetworkConnectionNotAvailable: transport-level failure; transient,
	// safe to retry later.
	FlushNetworkConnectionNotAvailable

	// FlushUnknownError: any unexpected failure anywhere in the run,
	// including queue store I/O failures.
	FlushUnknownError
)

func (o FlushOutcome) String() string {
	switch o {
	case FlushSuccess:
		return "Success"
	case FlushOperationCanceled:
		return "OperationCanceled"
	case FlushInvalidAuthorizationToken:
		return "InvalidAuthorizationToken"
	case FlushWebServiceError:
		return "WebServiceError"
	case FlushNetworkConnectionNotAvailable:
		return "NetworkConnectionNotAvailable"
	default:
		return "UnknownError"
	}
}

// DeliveryOutcome classifies a single delivery attempt of one report.
type DeliveryOutcome int

const (
	DeliverySuccess DeliveryOutcome = iota
	DeliveryInvalidAuthorizationToken
	DeliveryServiceError
	DeliveryNetworkUnavailable
	DeliveryCanceled
)

func (o DeliveryOutcome) String() string {
	switch o {
	case DeliverySuccess:
		return "Success"
	case DeliveryInvalidAuthorizationToken:
		return "InvalidAuthorizationToken"
	case DeliveryServiceError:
		return "ServiceError"
	case DeliveryNetworkUnavailable:
		return "NetworkUnavailable"
	default:
		return "Canceled"
	}
}

// FlushOutcomeOf maps a delivery attempt's classification onto the flush run
// outcome taxonomy.
func FlushOutcomeOf(o DeliveryOutcome) FlushOutcome {
	switch o {
	case DeliverySuccess:
		return FlushSuccess
	case DeliveryInvalidAuthorizationToken:
		return FlushInvalidAuthorizationToken
	case DeliveryServiceError:
		return FlushWebServiceError
	case DeliveryNetworkUnavailable:
		return FlushNetworkConnectionNotAvailable
	default:
		return FlushOperationCanceled
	}
}
