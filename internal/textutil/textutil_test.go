package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Crème Brûlée", "creme brulee"},
		{"  Greek   YOGURT ", "greek yogurt"},
		{"Jalapeño", "jalapeno"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Bench Press", Title("bench  press"))
	assert.Equal(t, "Romanian Deadlift", Title("Romanian deadlift"))
}
