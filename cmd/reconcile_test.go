package cmd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseIndices(t *testing.T) {
	testCases := []struct {
		input   string
		want    []indexFlag
		wantErr bool
	}{
		{input: "", want: nil},
		{input: "WIG-BANKI=WIG_BANKI.WAR", want: []indexFlag{{"WIG-BANKI", "WIG_BANKI.WAR"}}},
		{
			input: " WIG-BANKI=WIG_BANKI.WAR, WIG-GRY=WIG_GRY.WAR ,",
			want:  []indexFlag{{"WIG-BANKI", "WIG_BANKI.WAR"}, {"WIG-GRY", "WIG_GRY.WAR"}},
		},
		{input: "WIG-BANKI", wantErr: true},
		{input: "=WIG_BANKI.WAR", wantErr: true},
		{input: "WIG-BANKI=", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseIndices(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parseIndices(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if diff := cmp.Diff(tc.want, got, cmp.AllowUnexported(indexFlag{})); diff != "" {
				t.Errorf("parseIndices(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}
