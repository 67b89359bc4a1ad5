package record

import (
	"encoding/json"
	"testing"
)

func TestValue_StringAndTruthy(t *testing.T) {
	tests := []struct {
		name       string
		v          Value
		wantString string
		wantTruthy bool
	}{
		{"empty string", String(""), "", false},
		{"string", String("demo"), "demo", true},
		{"true", Bool(true), "true", true},
		{"false", Bool(false), "false", false},
		{"zero int", Int(0), "0", false},
		{"int", Int(42), "42", true},
		{"zero value", Value{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.wantString {
				t.Errorf("String() = %q, want %q", got, tt.wantString)
			}
			if got := tt.v.Truthy(); got != tt.wantTruthy {
				t.Errorf("Truthy() = %v, want %v", got, tt.wantTruthy)
			}
		})
	}
}

func TestValue_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Value
		wantErr bool
	}{
		{`"640"`, String("640"), false},
		{`true`, Bool(true), false},
		{`false`, Bool(false), false},
		{`800`, Int(800), false},
		{`-3`, Int(-3), false},
		{`1.5`, String("1.5"), false},
		{`null`, String(""), false},
		{`[1,2]`, Value{}, true},
		{`{"a":1}`, Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got Value
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v (%s), want %v (%s)", got, got.Kind(), tt.want, tt.want.Kind())
			}
		})
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Value{String("a"), Bool(true), Int(7)})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `["a",true,7]` {
		t.Errorf("Marshal = %s", data)
	}
}
