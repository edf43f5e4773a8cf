package models

import (
	"strings"
	"testing"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestMemoCreate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      MemoCreate
		wantErr bool
	}{
		{"minimal valid", MemoCreate{Title: "T", Content: "C"}, false},
		{"missing title", MemoCreate{Content: "C"}, true},
		{"missing content", MemoCreate{Title: "T"}, true},
		{"title too long", MemoCreate{Title: strings.Repeat("a", 101), Content: "C"}, true},
		{"title at limit", MemoCreate{Title: strings.Repeat("a", 100), Content: "C"}, false},
		{"priority too high", MemoCreate{Title: "T", Content: "C", Priority: intPtr(10)}, true},
		{"priority too low", MemoCreate{Title: "T", Content: "C", Priority: intPtr(0)}, true},
		{"priority in range", MemoCreate{Title: "T", Content: "C", Priority: intPtr(4)}, false},
		{"category too long", MemoCreate{Title: "T", Content: "C", Category: strPtr(strings.Repeat("c", 51))}, true},
		{"author too long", MemoCreate{Title: "T", Content: "C", Author: strPtr(strings.Repeat("a", 101))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestMemoUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      MemoUpdate
		wantErr bool
	}{
		{"empty is valid shape", MemoUpdate{}, false},
		{"valid title", MemoUpdate{Title: strPtr("new")}, false},
		{"blank title", MemoUpdate{Title: strPtr("")}, true},
		{"blank content", MemoUpdate{Content: strPtr("")}, true},
		{"bad priority", MemoUpdate{Priority: intPtr(5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestMemoUpdate_IsEmpty(t *testing.T) {
	if !(MemoUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	favorite := true
	if (MemoUpdate{IsFavorite: &favorite}).IsEmpty() {
		t.Error("update with a field should not be empty")
	}
}

func TestTagList_ScanValue(t *testing.T) {
	v, err := TagList{"a", "b"}.Value()
	if err != nil {
		t.Fatal(err)
	}

	var scanned TagList
	if err := scanned.Scan(v); err != nil {
		t.Fatal(err)
	}
	if len(scanned) != 2 || scanned[0] != "a" || scanned[1] != "b" {
		t.Errorf("scanned = %v", scanned)
	}

	var fromNil TagList
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if fromNil == nil || len(fromNil) != 0 {
		t.Errorf("nil scan = %v, want empty list", fromNil)
	}

	nilValue, err := TagList(nil).Value()
	if err != nil {
		t.Fatal(err)
	}
	if nilValue != "[]" {
		t.Errorf("nil Value() = %v, want []", nilValue)
	}
}
