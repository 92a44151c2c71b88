package domain

import "testing"

func TestIsEmergencyAnswer(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"Yes", true},
		{"yes", true},
		{"Y", true},
		{"y", true},
		{"yep", true},
		{"  YES  ", true},
		{"No", false},
		{"", false},
		{"maybe", false},
		{"not sure, yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			if got := IsEmergencyAnswer(tt.answer); got != tt.want {
				t.Errorf("IsEmergencyAnswer(%q) = %v, want %v", tt.answer, got, tt.want)
			}
		})
	}
}

func TestNormalizeServiceKey(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Leak Detection & Repair", "leak_detection_repair"},
		{"  Drains!!  ", "drains"},
		{"Leak Repair", "leak_repair"},
		{"Water-Heater (Tank)", "water_heater_tank"},
		{"___", ""},
		{"", ""},
		{"Sump Pump 2", "sump_pump_2"},
		{"Café Plumbing", "caf_plumbing"},
		{"Ñandú", "and"},
		{"SÉWER", "s_wer"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := NormalizeServiceKey(tt.label); got != tt.want {
				t.Errorf("NormalizeServiceKey(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}
