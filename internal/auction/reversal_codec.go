package auction

import (
	"encoding/json"
	"fmt"
)

// EncodeReversal serializes r for storage next to its event.
func EncodeReversal(r Reversal) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

// DecodeReversal restores the reversal stored for an event of type kind.
// Informational events carry none.
func DecodeReversal(kind ActionType, b []byte) (Reversal, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	switch kind {
	case ActionPlayerSold:
		return decodeAs[SaleReversal](b)
	case ActionPlayerUnsold:
		return decodeAs[UnsoldReversal](b)
	case ActionPlayerDisqualified:
		return decodeAs[DisqualifyReversal](b)
	case ActionPlayerReinstated:
		return decodeAs[ReinstateReversal](b)
	case ActionManualOverride:
		return decodeAs[OverrideReversal](b)
	default:
		return nil, fmt.Errorf("decode reversal: %s is not undoable", kind)
	}
}

func decodeAs[T Reversal](b []byte) (Reversal, error) {
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("decode reversal: %w", err)
	}
	return v, nil
}
