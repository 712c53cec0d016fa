package envelope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data string
		ok   bool
	}{
		{
			name: "valid envelope",
			data: `{"ciphertext":"AbCdEf==","nonce":"123456"}`,
			ok:   true,
		},
		{
			name: "plain text",
			data: "some invalid data",
			ok:   false,
		},
		{
			name: "missing nonce",
			data: `{"ciphertext":"AbCdEf=="}`,
			ok:   false,
		},
		{
			name: "extra key",
			data: `{"ciphertext":"AbCdEf==","nonce":"123456","extra":"x"}`,
			ok:   false,
		},
		{
			name: "wrong value type",
			data: `{"ciphertext":1,"nonce":"123456"}`,
			ok:   false,
		},
		{
			name: "json array",
			data: `["ciphertext","nonce"]`,
			ok:   false,
		},
		{
			name: "empty object",
			data: `{}`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, ok := Decode(tt.data)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.NotEmpty(t, env.Ciphertext)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	valid := `{"ciphertext":"AbCdEf==","nonce":"123456"}`

	assert.Equal(t, valid, Sanitize(valid, 1024))
	assert.Equal(t, Empty, Sanitize("some invalid data", 1024))

	// 超过大小上限的合法信封也被置空
	big := `{"ciphertext":"` + strings.Repeat("A", 2048) + `","nonce":"123456"}`
	assert.Equal(t, Empty, Sanitize(big, 1024))

	// maxSize <= 0 关闭大小限制
	assert.Equal(t, big, Sanitize(big, 0))
}
