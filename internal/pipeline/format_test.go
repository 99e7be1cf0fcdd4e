package pipeline

import (
	"reflect"
	"testing"
)

func TestParseRow(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "unquoted fields",
			input: "a,b,c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "quoted fields",
			input: `"a","b","c"`,
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "comma inside quotes",
			input: `"hello, world","b"`,
			want:  []string{"hello, world", "b"},
		},
		{
			name:  "doubled quote inside quoted field",
			input: `"say ""hi""","b"`,
			want:  []string{`say "hi"`, "b"},
		},
		{
			name:  "empty fields",
			input: `"",,"c"`,
			want:  []string{"", "", "c"},
		},
		{
			name:  "single field",
			input: "only",
			want:  []string{"only"},
		},
		{
			name:  "trailing empty field",
			input: "a,b,",
			want:  []string{"a", "b", ""},
		},
		{
			name:  "unterminated quote is best effort",
			input: `"a,b`,
			want:  []string{"a,b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRow(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRow(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterContent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "drops comments and blanks",
			input: "# header comment\n\nid,timestamp\n  \n\"m1\",\"t1\"\n# trailing",
			want:  []string{"id,timestamp", `"m1","t1"`},
		},
		{
			name:  "windows line endings",
			input: "# c\r\nid\r\n\"m1\"\r\n",
			want:  []string{"id", `"m1"`},
		},
		{
			name:  "indented comment",
			input: "   # still a comment\nid",
			want:  []string{"id"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only comments",
			input: "# a\n# b\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterContent(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterContent(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIssueString(t *testing.T) {
	tests := []struct {
		name  string
		issue Issue
		want  string
	}{
		{
			name:  "row with field and value",
			issue: errorf(3, "result", "banana", "Invalid value"),
			want:  `Row 3: Invalid value - Field: result, Value: "banana"`,
		},
		{
			name:  "row with null value",
			issue: errorf(2, "timestamp", "", "Missing required field"),
			want:  "Row 2: Missing required field - Field: timestamp, Value: null",
		},
		{
			name:  "collection level without field",
			issue: Issue{Message: "Found duplicate match IDs: a, b", Severity: SeverityError},
			want:  "Found duplicate match IDs: a, b",
		},
		{
			name:  "warning with field",
			issue: warnf(1, "points", "Missing points field - automatically set: 0"),
			want:  "Row 1: Missing points field - automatically set: 0 - Field: points, Value: null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.issue.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
