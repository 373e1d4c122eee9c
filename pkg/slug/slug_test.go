package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Linen Shirt", "linen-shirt"},
		{"vietnamese diacritics", "Áo Thun Nam", "ao-thun-nam"},
		{"dong becomes d", "Đồng hồ đeo tay", "dong-ho-deo-tay"},
		{"punctuation collapsed", "Hello   World!", "hello-world"},
		{"leading and trailing noise", "  --Sale 50%--  ", "sale-50"},
		{"digits preserved", "Ao So Mi 2025", "ao-so-mi-2025"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.in))
		})
	}
}
