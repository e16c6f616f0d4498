package nightscout

import (
	"encoding/json"
	"fmt"
)

// encode serializes an outgoing payload. Payload types are fixed wire
// structs, so a failure here is a programming error.
func encode(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("nightscout: encode %T: %v", v, err))
	}
	return b
}

func decode[T any](body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return out, nil
}
