package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  USER@Example.COM "))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"user@", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.valid {
			assert.NoError(t, err, tt.email)
		} else {
			assert.Error(t, err, tt.email)
		}
	}
}

func TestValidateTitle(t *testing.T) {
	assert.Error(t, ValidateTitle("ab"))
	assert.NoError(t, ValidateTitle("abc"))
	assert.NoError(t, ValidateTitle(strings.Repeat("x", MaxTitleLen)))
	assert.Error(t, ValidateTitle(strings.Repeat("x", MaxTitleLen+1)))
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "trims and drops empties",
			in:   []string{"a", " ", "b ", ""},
			want: []string{"a", "b"},
		},
		{
			name: "nil stays empty",
			in:   nil,
			want: []string{},
		},
		{
			name: "truncates to the cap",
			in: []string{"t1", "t2", "t3", "t4", "t5", "t6",
				"t7", "t8", "t9", "t10", "t11", "t12"},
			want: []string{"t1", "t2", "t3", "t4", "t5", "t6",
				"t7", "t8", "t9", "t10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTags(tt.in))
		})
	}
}

func TestValidateTags(t *testing.T) {
	assert.NoError(t, ValidateTags([]string{"hiking", "beaches"}))
	assert.Error(t, ValidateTags([]string{strings.Repeat("x", MaxTagLen+1)}))
}

func TestUsernameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"marco.polo@example.com", "marco.polo"},
		{"ab@example.com", "ab_"},
		{"no-at-sign", "no-at-sign"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UsernameFromEmail(tt.email))
	}
}

func TestUsernameFromEmailCapsLength(t *testing.T) {
	long := strings.Repeat("a", 80) + "@example.com"
	got := UsernameFromEmail(long)
	assert.Len(t, got, MaxUsernameLen)
}
