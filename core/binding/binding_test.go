package binding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Binding
		wantErr bool
	}{
		{
			name:  "bare behavior",
			input: "&trans",
			want:  Binding{Value: "&trans"},
		},
		{
			name:  "single param",
			input: "&kp A",
			want:  Binding{Value: "&kp", Params: []Param{{Value: "A"}}},
		},
		{
			name:  "two params",
			input: "&mt LCTRL A",
			want:  Binding{Value: "&mt", Params: []Param{{Value: "LCTRL"}, {Value: "A"}}},
		},
		{
			name:  "nested function call",
			input: "&kp LC(LS(TAB))",
			want: Binding{Value: "&kp", Params: []Param{
				{Value: "LC", Params: []Param{
					{Value: "LS", Params: []Param{{Value: "TAB"}}},
				}},
			}},
		},
		{
			name:  "comma separated args",
			input: "&kp LC(A,B)",
			want: Binding{Value: "&kp", Params: []Param{
				{Value: "LC", Params: []Param{{Value: "A"}, {Value: "B"}}},
			}},
		},
		{
			name:  "negative number param",
			input: "&sensor-rotate -1",
			want:  Binding{Value: "&sensor-rotate", Params: []Param{{Value: "-1"}}},
		},
		{
			name:    "missing ampersand",
			input:   "kp A",
			wantErr: true,
		},
		{
			name:    "no behavior name",
			input:   "&",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) = %v, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned unexpected error: %v", tc.input, err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"&trans",
		"&kp A",
		"&mt LCTRL A",
		"&kp LC(LS(TAB))",
	}
	for _, in := range inputs {
		b, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := Format(b); got != in {
			t.Errorf("Format(Parse(%q)) = %q, want %q", in, got, in)
		}
	}
}

func TestCanonicalizeNormalizesWhitespace(t *testing.T) {
	got, err := Canonicalize("  &mt   LCTRL    A  ")
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := "&mt LCTRL A"
	if got != want {
		t.Errorf("Canonicalize = %q, want %q", got, want)
	}
}
