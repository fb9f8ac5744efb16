package git

import "testing"

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name    string
		ctype   string
		scope   string
		subject string
		body    string
		want    string
	}{
		{
			name:    "simple",
			ctype:   TypeFeat,
			subject: "add feature",
			want:    "feat: add feature",
		},
		{
			name:    "with scope",
			ctype:   TypeDocs,
			scope:   "notes",
			subject: "save n1",
			want:    "docs(notes): save n1",
		},
		{
			name:    "with body",
			ctype:   TypeDocs,
			subject: "update readme",
			body:    "  Added new examples.\n",
			want:    "docs: update readme\n\nAdded new examples.",
		},
		{
			name:    "empty type falls back to chore",
			subject: "tidy",
			want:    "chore: tidy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMessage(tt.ctype, tt.scope, tt.subject, tt.body)
			if got != tt.want {
				t.Errorf("FormatMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendTrailer(t *testing.T) {
	tests := []struct {
		name  string
		msg   string
		key   string
		value string
		want  string
	}{
		{
			name:  "plain",
			msg:   "docs(notes): save n1",
			key:   "Note-Author",
			value: "0xabc",
			want:  "docs(notes): save n1\n\nNote-Author: 0xabc",
		},
		{
			name:  "trailing newline",
			msg:   "line 1\n",
			key:   "Note-Author",
			value: "0xabc",
			want:  "line 1\n\nNote-Author: 0xabc",
		},
		{
			name:  "joins existing trailer block",
			msg:   "docs: x\n\nReviewed-by: someone",
			key:   "Note-Author",
			value: "0xabc",
			want:  "docs: x\n\nReviewed-by: someone\nNote-Author: 0xabc",
		},
		{
			name:  "already present",
			msg:   "docs: x\n\nNote-Author: 0xdef",
			key:   "Note-Author",
			value: "0xabc",
			want:  "docs: x\n\nNote-Author: 0xdef",
		},
		{
			name:  "empty value",
			msg:   "docs: x",
			key:   "Note-Author",
			want:  "docs: x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendTrailer(tt.msg, tt.key, tt.value)
			if got != tt.want {
				t.Errorf("AppendTrailer() = %q, want %q", got, tt.want)
			}
		})
	}
}
