package schedule

import "testing"

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		clock   string
		minutes int
		want    string
	}{
		{"09:45", 30, "10:15"},
		{"16:45", 30, "17:15"},
		{"09:00", 30, "09:30"},
		{"23:45", 30, "00:15"},
		{"11:45 AM", 30, "12:15 PM"},
		{"11:45 PM", 30, "12:15 AM"},
		{"12:45 PM", 30, "1:15 PM"},
		{"12:45 AM", 30, "1:15 AM"},
		{"9:45 am", 30, "10:15 AM"},
	}

	for _, tt := range tests {
		got, err := AddMinutes(tt.clock, tt.minutes)
		if err != nil {
			t.Errorf("AddMinutes(%q, %d) error: %v", tt.clock, tt.minutes, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AddMinutes(%q, %d) = %q, want %q", tt.clock, tt.minutes, got, tt.want)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"09:00", "09:00", false},
		{"09:00:00", "09:00", false},
		{"14:30:59", "14:30", false},
		{"12:00 AM", "00:00", false},
		{"12:00 PM", "12:00", false},
		{"3:04 PM", "15:04", false},
		{"", "", true},
		{"garbage", "", true},
		{"25:00", "", true},
		{"10:61", "", true},
		{"13:00 PM", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) expected error, got %q", tt.in, got.Format24())
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q) error: %v", tt.in, err)
			continue
		}
		if got.Format24() != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %q, want %q", tt.in, got.Format24(), tt.want)
		}
	}
}

func TestFormat12(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"00:15", "12:15 AM"},
		{"09:00", "9:00 AM"},
		{"12:00", "12:00 PM"},
		{"16:45", "4:45 PM"},
	}

	for _, tt := range tests {
		tod, err := ParseTimeOfDay(tt.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", tt.in, err)
		}
		if got := tod.Format12(); got != tt.want {
			t.Errorf("Format12(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEndTime(t *testing.T) {
	got, err := EndTime("11:30")
	if err != nil {
		t.Fatalf("EndTime: %v", err)
	}
	if got != "12:00" {
		t.Errorf("EndTime(11:30) = %q, want 12:00", got)
	}
}
