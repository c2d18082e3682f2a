package course

import (
	"reflect"
	"testing"
)

func TestCourse_AddDate(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		add   string
		want  []string
	}{
		{name: "empty", dates: []string{}, add: "2026-01-05", want: []string{"2026-01-05"}},
		{name: "append", dates: []string{"2026-01-05"}, add: "2026-01-12", want: []string{"2026-01-05", "2026-01-12"}},
		{
			name:  "insert in the middle",
			dates: []string{"2026-01-05", "2026-01-19"},
			add:   "2026-01-12",
			want:  []string{"2026-01-05", "2026-01-12", "2026-01-19"},
		},
		{name: "prepend", dates: []string{"2026-01-12"}, add: "2026-01-05", want: []string{"2026-01-05", "2026-01-12"}},
		{name: "duplicate", dates: []string{"2026-01-05", "2026-01-12"}, add: "2026-01-12", want: []string{"2026-01-05", "2026-01-12"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crs := Course{Dates: tt.dates}
			crs.AddDate(tt.add)
			if !reflect.DeepEqual(crs.Dates, tt.want) {
				t.Errorf("AddDate() dates = %v, want %v", crs.Dates, tt.want)
			}
		})
	}
}

func TestCourse_Status(t *testing.T) {
	crs := Course{
		Attendance: map[string]map[string]string{
			"2026-01-05": {"S1": StatusPresent},
		},
	}

	tests := []struct {
		name      string
		date      string
		studentID string
		want      string
	}{
		{name: "recorded present", date: "2026-01-05", studentID: "S1", want: StatusPresent},
		{name: "student missing under date", date: "2026-01-05", studentID: "S2", want: StatusAbsent},
		{name: "date not tracked", date: "2026-01-12", studentID: "S1", want: StatusAbsent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := crs.Status(tt.date, tt.studentID); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCourse_Repair(t *testing.T) {
	crs := Course{
		ID:    "MATH101",
		Dates: []string{"2026-01-12", "2026-01-05", "2026-01-12"},
	}
	crs.Repair()

	if crs.Students == nil {
		t.Error("Repair() left Students nil")
	}
	wantDates := []string{"2026-01-05", "2026-01-12"}
	if !reflect.DeepEqual(crs.Dates, wantDates) {
		t.Errorf("Repair() dates = %v, want %v", crs.Dates, wantDates)
	}
	for _, d := range wantDates {
		if crs.Attendance[d] == nil {
			t.Errorf("Repair() left no attendance map for %s", d)
		}
	}
}

func TestCourse_percentages(t *testing.T) {
	crs := Course{
		Students: []Student{{ID: "S1"}, {ID: "S2"}},
		Dates:    []string{"2026-01-05", "2026-01-12"},
		Attendance: map[string]map[string]string{
			"2026-01-05": {"S1": StatusPresent, "S2": StatusPresent},
			"2026-01-12": {"S1": StatusPresent, "S2": StatusAbsent},
		},
	}

	if got := crs.PresentOn("2026-01-05"); got != 2 {
		t.Errorf("PresentOn() = %d, want 2", got)
	}
	if got := crs.StudentTally("S2"); got.Present != 1 || got.Absent != 1 {
		t.Errorf("StudentTally() = %+v, want {1 1}", got)
	}
	if got := crs.OverallPercentage(); got != 75 {
		t.Errorf("OverallPercentage() = %v, want 75", got)
	}

	empty := Course{}
	if got := empty.OverallPercentage(); got != 0 {
		t.Errorf("OverallPercentage() on empty course = %v, want 0", got)
	}
}

func TestCourse_Clone(t *testing.T) {
	crs := Course{
		ID:       "MATH101",
		Students: []Student{{ID: "S1"}},
		Dates:    []string{"2026-01-05"},
		Attendance: map[string]map[string]string{
			"2026-01-05": {"S1": StatusPresent},
		},
	}
	dup := crs.Clone()
	dup.Students[0].ID = "HACKED"
	dup.Dates[0] = "1999-01-01"
	dup.Attendance["2026-01-05"]["S1"] = StatusAbsent

	if crs.Students[0].ID != "S1" || crs.Dates[0] != "2026-01-05" || crs.Attendance["2026-01-05"]["S1"] != StatusPresent {
		t.Error("Clone() shares state with the original")
	}
}
