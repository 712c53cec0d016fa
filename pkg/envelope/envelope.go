// Package envelope decodes the opaque ciphertext envelope carried by history
// payloads. Decoding never fails outward: anything that is not a well formed
// envelope collapses to the empty sentinel so one bad item cannot block a batch.
// Package envelope 解析历史负载携带的密文信封。解析永不向外失败：
// 非法信封一律归一为空信封哨兵，避免单条坏数据阻塞整批同步。
package envelope

import (
	"encoding/json"
)

// Empty is the sanitized placeholder stored in place of an invalid payload.
// Empty 为非法负载落库时的占位哨兵
const Empty = "{}"

// Envelope 两字段密文信封
type Envelope struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// Decode parses data as a strict two-field envelope. ok reports whether data
// was a valid envelope; the envelope is zero-valued otherwise.
func Decode(data string) (Envelope, bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return Envelope{}, false
	}
	// 严格两键：多余或缺失的键都视为非法
	if len(raw) != 2 {
		return Envelope{}, false
	}
	ctRaw, ok := raw["ciphertext"]
	if !ok {
		return Envelope{}, false
	}
	nonceRaw, ok := raw["nonce"]
	if !ok {
		return Envelope{}, false
	}

	var env Envelope
	if err := json.Unmarshal(ctRaw, &env.Ciphertext); err != nil {
		return Envelope{}, false
	}
	if err := json.Unmarshal(nonceRaw, &env.Nonce); err != nil {
		return Envelope{}, false
	}
	return env, true
}

// Sanitize returns data unchanged when it is a valid envelope within maxSize
// bytes, and the Empty sentinel otherwise. maxSize <= 0 disables the ceiling.
func Sanitize(data string, maxSize int) string {
	if maxSize > 0 && len(data) > maxSize {
		return Empty
	}
	if _, ok := Decode(data); !ok {
		return Empty
	}
	return data
}
