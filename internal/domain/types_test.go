package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"isActive":true}`, true},
		{`{"isActive":"true"}`, true},
		{`{"isActive":false}`, false},
		{`{"isActive":"false"}`, false},
		{`{"isActive":null}`, false},
		{`{}`, false},
		{`{"isActive":"TRUE"}`, false},
		{`{"isActive":1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c Category
			if err := json.Unmarshal([]byte(tt.raw), &c); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c.IsActive.Bool() != tt.want {
				t.Errorf("IsActive = %v, want %v", c.IsActive, tt.want)
			}
		})
	}
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`{"price":100}`, 100},
		{`{"price":"200"}`, 200},
		{`{"price":" 12.5 "}`, 12.5},
		{`{"price":"abc"}`, 0},
		{`{"price":"NaN"}`, 0},
		{`{"price":"Infinity"}`, 0},
		{`{"price":"-Inf"}`, 0},
		{`{"price":null}`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var v Variant
			if err := json.Unmarshal([]byte(tt.raw), &v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if v.Price.Float() != tt.want || v.Price.Int() != int(tt.want) {
				t.Errorf("Price = %v, want %v", v.Price, tt.want)
			}
		})
	}
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	var c Category
	raw := `{"createdAt":"2024-03-01T10:20:30.123Z","updatedAt":"not-a-date"}`
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 20, 30, 123000000, time.UTC)
	if !c.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", c.CreatedAt.Time, want)
	}
	if !c.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt = %v, want zero", c.UpdatedAt.Time)
	}
}

func TestOrderCustomer_UnmarshalJSON(t *testing.T) {
	var populated, bare Order
	if err := json.Unmarshal([]byte(`{"userId":{"_id":"u1","name":"An","email":"an@example.com"}}`), &populated); err != nil {
		t.Fatalf("unmarshal populated: %v", err)
	}
	if populated.User.Name != "An" || populated.User.ID != "u1" {
		t.Errorf("populated user = %+v", populated.User)
	}
	if err := json.Unmarshal([]byte(`{"userId":"u2"}`), &bare); err != nil {
		t.Fatalf("unmarshal bare: %v", err)
	}
	if bare.User.ID != "u2" {
		t.Errorf("bare user id = %q, want u2", bare.User.ID)
	}
}

func TestRows_ZeroTimestampsMarshalNull(t *testing.T) {
	created := Timestamp{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	data, err := json.Marshal(CategoryRow{ID: "c1", CreatedAt: created})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["createdAt"] != "2026-03-01T00:00:00Z" {
		t.Errorf("createdAt = %v", got["createdAt"])
	}
	if v, ok := got["updatedAt"]; !ok || v != nil {
		t.Errorf("updatedAt = %v, want null", v)
	}
}
