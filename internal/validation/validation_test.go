package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  error
	}{
		{"user@example.com", nil},
		{"", ErrEmailRequired},
		{"not-an-email", ErrEmailInvalid},
		{"Bob <bob@example.com>", ErrEmailInvalid},
		{strings.Repeat("a", 250) + "@x.io", ErrEmailTooLong},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, ValidateEmail(tt.email), tt.want, tt.email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("correct horse battery"))
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
	assert.ErrorIs(t, ValidatePassword("mypassword2024"), ErrPasswordCommon)
}

func TestValidateTitle(t *testing.T) {
	got, err := ValidateTitle("  Run a marathon ")
	assert.NoError(t, err)
	assert.Equal(t, "Run a marathon", got)

	_, err = ValidateTitle("   ")
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = ValidateTitle(strings.Repeat("é", MaxTitleLength+1))
	assert.ErrorIs(t, err, ErrTitleTooLong)
}

func TestValidateDay(t *testing.T) {
	assert.NoError(t, ValidateDay(2024, 2, 29))
	assert.ErrorIs(t, ValidateDay(2025, 2, 29), ErrInvalidDay)
	assert.ErrorIs(t, ValidateDay(2025, 4, 31), ErrInvalidDay)
	assert.ErrorIs(t, ValidateDay(2025, 1, 0), ErrInvalidDay)
	assert.ErrorIs(t, ValidateDay(2025, 13, 1), ErrInvalidMonth)
	assert.ErrorIs(t, ValidateYear(1800), ErrInvalidYear)
}
