package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubjectCode(t *testing.T) {
	for _, v := range []int{100, 300, 599, 999} {
		c, err := NewSubjectCode(v)
		require.NoError(t, err)
		assert.Equal(t, SubjectCode(v), c)
	}
	for _, v := range []int{0, 99, 1000, -5} {
		_, err := NewSubjectCode(v)
		assert.True(t, errors.Is(err, ErrInvalidSubjectCode), "code %d", v)
	}
}

func TestParseSubjectCode(t *testing.T) {
	c, err := ParseSubjectCode(" 500 ")
	require.NoError(t, err)
	assert.Equal(t, SubjectCode(500), c)

	_, err = ParseSubjectCode("food")
	assert.ErrorIs(t, err, ErrInvalidSubjectCode)
}

func TestSubjectCode_Classification(t *testing.T) {
	tests := []struct {
		code     SubjectCode
		category Category
		pl       bool
	}{
		{100, CategoryAsset, false},
		{250, CategoryLiability, false},
		{300, CategoryEquity, false},
		{400, CategoryIncome, true},
		{599, CategoryExpense, true},
		{600, CategoryOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.category, tt.code.Category())
			assert.Equal(t, tt.pl, tt.code.IsProfitAndLoss())
		})
	}
	assert.True(t, SubjectCode(399).IsBalanceSheet())
	assert.False(t, SubjectCode(400).IsBalanceSheet())
}

func TestSubjectCode_String(t *testing.T) {
	assert.Equal(t, "500", SubjectCode(500).String())
	assert.Equal(t, "050", SubjectCode(50).String())
}
