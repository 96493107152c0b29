package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "plus seven", raw: "+79991234567", want: "+79991234567", ok: true},
		{name: "eight prefix", raw: "89991234567", want: "+79991234567", ok: true},
		{name: "bare seven prefix", raw: "79991234567", want: "+79991234567", ok: true},
		{name: "bare ten digit mobile", raw: "9991234567", want: "+79991234567", ok: true},
		{name: "spaces and punctuation", raw: "8 (999) 123-45-67", want: "+79991234567", ok: true},
		{name: "too short", raw: "12345", ok: false},
		{name: "too long", raw: "+799912345678", ok: false},
		{name: "ten digits not mobile", raw: "1234567890", ok: false},
		{name: "eleven digits wrong prefix", raw: "19991234567", ok: false},
		{name: "letters only", raw: "позвоните мне", ok: false},
		{name: "empty", raw: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhone(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidTaxID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "ten digits", in: "7712345678", want: true},
		{name: "twelve digits", in: "771234567890", want: true},
		{name: "eleven digits", in: "77123456789", want: false},
		{name: "nine digits", in: "771234567", want: false},
		{name: "letters mixed in", in: "77123456ab", want: false},
		{name: "digits with space", in: "7712 45678", want: false},
		{name: "empty", in: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidTaxID(tt.in))
		})
	}
}

func TestValidRating(t *testing.T) {
	for rating, want := range map[int]bool{0: false, 1: true, 3: true, 5: true, 6: false, -1: false} {
		assert.Equal(t, want, ValidRating(rating), "rating %d", rating)
	}
}
