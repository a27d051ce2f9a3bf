package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Generation request layer.
	ErrBadRequest   = "E_BAD_REQUEST"
	ErrTooLarge     = "E_TOO_LARGE"
	ErrUnknownBlock = "E_UNKNOWN_BLOCK"
	ErrInternal     = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrTooLarge:        {},
	ErrUnknownBlock:    {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
