package folio

import "testing"

func TestMoneyString(t *testing.T) {
	tests := []struct {
		money      Money
		want       string
		wantSigned string
	}{
		{M(45, "USD"), "$45.00", "+$45.00"},
		{M(1234.567, "USD"), "$1,234.57", "+$1,234.57"},
		{M(-5, "USD"), "-$5.00", "-$5.00"},
		{M(0, "USD"), "$0.00", "-"},
	}
	for _, tc := range tests {
		if got := tc.money.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
		if got := tc.money.SignedString(); got != tc.wantSigned {
			t.Errorf("SignedString() = %q, want %q", got, tc.wantSigned)
		}
	}
}
