package ai

import (
	"testing"
)

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type fact struct {
		Subject string `json:"subject"`
		Object  string `json:"object,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  fact
	}{
		{
			name:  "valid json object",
			input: `{"subject":"seagull"}`,
			want:  fact{Subject: "seagull"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{subject: 'seagull'}`,
			want:  fact{Subject: "seagull"},
		},
		{
			name:  "trailing comma",
			input: `{"subject":"seagull",}`,
			want:  fact{Subject: "seagull"},
		},
		{
			name:  "missing endbracket",
			input: `{"subject":"seagull`,
			want:  fact{Subject: "seagull"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{subject: 'seagull'}"`,
			want:  fact{Subject: "seagull"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"subject\": \"seagull\"\n}\n",
			want:  fact{Subject: "seagull"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got fact
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Subject != tc.want.Subject || got.Object != tc.want.Object {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ArrayVariants(t *testing.T) {
	type fact struct {
		Subject string `json:"subject"`
	}

	input := `[{subject:'A'},{subject:'B',}]`
	var got []fact
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 2 || got[0].Subject != "A" || got[1].Subject != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want two facts A,B", got)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	type fact struct {
		Subject string `json:"subject"`
	}

	var got fact
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestUnmarshalFlexible_StringifiedWithNewlines(t *testing.T) {
	type entity struct {
		Canonical string   `json:"canonical"`
		Synonyms  []string `json:"synonyms"`
	}

	input := `"{\n  \"canonical\": \"flight\",\n  \"synonyms\": [\"flying\", \"fly\", \"aviation\"]\n}\n"`
	var got entity
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if got.Canonical != "flight" {
		t.Errorf("UnmarshalFlexible() canonical = %q, want %q", got.Canonical, "flight")
	}
	if len(got.Synonyms) != 3 || got.Synonyms[0] != "flying" {
		t.Errorf("UnmarshalFlexible() synonyms = %v, want [flying fly aviation]", got.Synonyms)
	}
}
