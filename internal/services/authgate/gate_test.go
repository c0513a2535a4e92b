package authgate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_IsAdmin_TableTests(t *testing.T) {
	gate := New([]string{"admin@example.com", "Ops@Example.com"})

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "почта в списке", email: "admin@example.com", want: true},
		{name: "почта в списке в другом регистре", email: "ADMIN@EXAMPLE.COM", want: true},
		{name: "почта из списка с заглавными", email: "ops@example.com", want: true},
		{name: "почта не в списке", email: "user@example.com", want: false},
		{name: "пустая почта", email: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.IsAdmin(tt.email))
		})
	}
}

func TestGate_EmptyAllowList(t *testing.T) {
	gate := New(nil)
	assert.False(t, gate.IsAdmin("admin@example.com"))
	assert.False(t, gate.IsAdmin(""))
}
