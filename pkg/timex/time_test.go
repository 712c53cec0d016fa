package timex

import (
	"testing"
	"time"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), now.Unix())
	}
	if tt.UnixMilli() != now.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), now.UnixMilli())
	}
	if tt.UnixNano() != now.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), now.UnixNano())
	}

	// Verify it's not returning time.Now() by waiting a bit
	// 通过等待一会确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() changed after sleep, it should be static. got %v, want %v", tt.Unix(), now.Unix())
	}
}

func TestTime_JSONRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 10, 2, 22, 17, 0, time.Local)
	tt := Time(now)

	data, err := tt.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if string(data) != `"2024-03-10 02:22:17"` {
		t.Errorf("MarshalJSON = %s", data)
	}

	var back Time
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON error: %v", err)
	}
	if back.Unix() != tt.Unix() {
		t.Errorf("round trip lost precision: got %v, want %v", back.Unix(), tt.Unix())
	}
}

func TestTime_ScanValue(t *testing.T) {
	now := time.Date(2024, 3, 10, 2, 22, 17, 0, time.Local)

	var tt Time
	if err := tt.Scan(now); err != nil {
		t.Fatalf("Scan(time.Time) error: %v", err)
	}
	if tt.Unix() != now.Unix() {
		t.Errorf("Scan(time.Time) = %v, want %v", tt.Unix(), now.Unix())
	}

	if err := tt.Scan("2024-03-10 02:22:17"); err != nil {
		t.Fatalf("Scan(string) error: %v", err)
	}
	if tt.Unix() != now.Unix() {
		t.Errorf("Scan(string) = %v, want %v", tt.Unix(), now.Unix())
	}

	v, err := tt.Value()
	if err != nil {
		t.Fatalf("Value() error: %v", err)
	}
	if _, ok := v.(time.Time); !ok {
		t.Errorf("Value() = %T, want time.Time", v)
	}

	var zero Time
	v, err = zero.Value()
	if err != nil {
		t.Fatalf("Value() on zero error: %v", err)
	}
	if v != nil {
		t.Errorf("zero Value() = %v, want nil", v)
	}
}
