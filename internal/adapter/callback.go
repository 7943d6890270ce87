package adapter

import "strings"

// Callback is a decoded colon-delimited inline-button payload, e.g.
// "stg:<id>" or "bpysts:<new_status>:<stage_id>". Kept to a simple
// split/join rather than a library: the grammar has no nesting or escaping
// to justify one.
type Callback struct {
	Action string
	Args   []string
}

const maxCallbackBytes = 64 // Telegram's inline-button callback_data limit

// EncodeCallback joins action and args with ":"; callers are responsible
// for keeping the result within maxCallbackBytes on platforms that enforce
// it (Telegram does; WhatsApp does not use this mechanism).
func EncodeCallback(action string, args ...string) (string, error) {
	parts := append([]string{action}, args...)
	encoded := strings.Join(parts, ":")
	if len(encoded) > maxCallbackBytes {
		return "", errCallbackTooLong
	}
	return encoded, nil
}

// DecodeCallback splits a callback_data payload back into its action and
// arguments.
func DecodeCallback(raw string) Callback {
	parts := strings.Split(raw, ":")
	if len(parts) == 0 {
		return Callback{}
	}
	return Callback{Action: parts[0], Args: parts[1:]}
}

var errCallbackTooLong = callbackError("callback data exceeds the platform's 64-byte limit")

type callbackError string

func (e callbackError) Error() string { return string(e) }
