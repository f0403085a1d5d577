package cmd

import "testing"

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		input   string
		want    assignment
		wantErr bool
	}{
		{"layout.columns=3", assignment{"layout", "columns", float64(3)}, false},
		{"display.showPrices=false", assignment{"display", "showPrices", false}, false},
		{"currency.symbol=$", assignment{"currency", "symbol", "$"}, false},
		{`currency.symbol="10"`, assignment{"currency", "symbol", "10"}, false},
		{"display.receiptFooter=Thanks, see you", assignment{"display", "receiptFooter", "Thanks, see you"}, false},
		{"display.receiptFooter=", assignment{"display", "receiptFooter", ""}, false},
		{"columns=3", assignment{}, true},
		{"layout.columns", assignment{}, true},
		{"a.b.c=1", assignment{}, true},
		{".x=1", assignment{}, true},
	}
	for _, tt := range tests {
		got, err := parseAssignment(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseAssignment(%q) = %+v, want error", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAssignment(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAssignment(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestParseStatuses(t *testing.T) {
	got, err := parseStatuses([]string{"Present", " absent "})
	if err != nil {
		t.Fatalf("parseStatuses: %v", err)
	}
	if len(got) != 2 || got[0] != "present" || got[1] != "absent" {
		t.Errorf("parseStatuses = %v", got)
	}
	if _, err := parseStatuses([]string{"gone"}); err == nil {
		t.Error("expected error for unknown status")
	}
}
