package db

import "testing"

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
		valid    bool
	}{
		{mode: ModeRead, expected: "read", valid: true},
		{mode: ModeWrite, expected: "write", valid: true},
		{mode: ModeNew, expected: "new", valid: true},
		{mode: Mode(3), expected: "Mode(3)", valid: false},
	}
	for _, test := range tests {
		if test.mode.String() != test.expected {
			t.Errorf("TestModeString: unexpected string. Want: %s, got: %s",
				test.expected, test.mode.String())
		}
		if test.mode.IsValid() != test.valid {
			t.Errorf("TestModeString: unexpected validity of %s. Want: %t, got: %t",
				test.expected, test.valid, test.mode.IsValid())
		}
	}
}
