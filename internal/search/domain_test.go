package search

import (
	"math/big"
	"testing"

	apperrors "github.com/agbru/resofactor/internal/errors"
)

func TestDomainPolicy_Check(t *testing.T) {
	t.Parallel()
	policy := DefaultDomainPolicy()

	testCases := []struct {
		name    string
		input   *big.Int
		wantErr bool
	}{
		{"whitelisted 30-bit reference", big.NewInt(1073217479), false},
		{"whitelisted 60-bit reference", big.NewInt(1152921470247108503), false},
		{"below minimum", big.NewInt(5), true},
		{"at the minimum", big.NewInt(1 << 20), false},
		{"one under the minimum", new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 20), big.NewInt(1)), true},
		{"inside the range", big.NewInt(1 << 40), false},
		{"at the maximum", new(big.Int).Lsh(big.NewInt(1), 80), false},
		{"above the maximum", new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 80), big.NewInt(1)), true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := policy.Check(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("Check(%s) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if err != nil && !apperrors.IsDomainError(err) {
				t.Errorf("Check(%s) returned %T, want DomainError", tc.input, err)
			}
		})
	}
}

func TestDomainPolicy_NilInput(t *testing.T) {
	t.Parallel()
	policy := DefaultDomainPolicy()
	if err := policy.Check(nil); !apperrors.IsDomainError(err) {
		t.Errorf("Check(nil) = %v, want DomainError", err)
	}
}

func TestDomainPolicy_Validate(t *testing.T) {
	t.Parallel()

	valid := DefaultDomainPolicy()
	if err := valid.Validate(); err != nil {
		t.Errorf("default policy should validate, got %v", err)
	}

	missing := DomainPolicy{}
	if err := missing.Validate(); err == nil {
		t.Error("policy without bounds should fail validation")
	}

	inverted := DomainPolicy{Min: big.NewInt(100), Max: big.NewInt(10)}
	if err := inverted.Validate(); err == nil {
		t.Error("inverted range should fail validation")
	}
}
