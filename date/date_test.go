package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2020-01-02", want: New(2020, time.January, 2)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "02.01.2020", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAdd_CrossesMonthAndYear(t *testing.T) {
	d := New(2020, time.January, 1)
	if got := d.Add(-1); got != New(2019, time.December, 31) {
		t.Errorf("Add(-1) = %v, want 2019-12-31", got)
	}
	if got := d.Add(31); got != New(2020, time.February, 1) {
		t.Errorf("Add(31) = %v, want 2020-02-01", got)
	}
}

func TestDate_AsMapKey(t *testing.T) {
	in := map[Date]string{MustParse("2021-01-05"): "x"}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `{"2021-01-05":"x"}` {
		t.Errorf("Marshal() = %s", b)
	}
	var out map[Date]string
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out[MustParse("2021-01-05")] != "x" {
		t.Errorf("round trip lost the entry: %v", out)
	}
}

func TestOf_TruncatesTime(t *testing.T) {
	ts := time.Date(2022, time.March, 4, 17, 45, 12, 0, time.UTC)
	if got := Of(ts); got != New(2022, time.March, 4) {
		t.Errorf("Of(%v) = %v", ts, got)
	}
}
