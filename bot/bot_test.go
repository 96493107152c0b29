package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackInts(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
		ids  []int64
		ok   bool
	}{
		{name: "single id", data: "42", want: 1, ids: []int64{42}, ok: true},
		{name: "pair", data: "7:3", want: 2, ids: []int64{7, 3}, ok: true},
		{name: "surrounding whitespace", data: " 7:3\n", want: 2, ids: []int64{7, 3}, ok: true},
		{name: "too few parts", data: "7", want: 2, ok: false},
		{name: "too many parts", data: "7:3:1", want: 2, ok: false},
		{name: "not a number", data: "7:abc", want: 2, ok: false},
		{name: "empty", data: "", want: 1, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, ok := callbackInts(tt.data, tt.want)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.ids, ids)
			}
		})
	}
}
