package git

import (
	"strings"
)

// Conventional Commit types.
const (
	TypeFeat     = "feat"
	TypeFix      = "fix"
	TypeDocs     = "docs"
	TypeRefactor = "refactor"
	TypeChore    = "chore"
)

// FormatMessage builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
func FormatMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = TypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}
	return sb.String()
}

// AppendTrailer adds a "key: value" trailer unless the message already carries one for key.
func AppendTrailer(msg, key, value string) string {
	if value == "" {
		return msg
	}
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, key+":") {
			return msg
		}
	}

	msg = strings.TrimRight(msg, "\n")
	if i := strings.LastIndex(msg, "\n\n"); i >= 0 && isTrailerBlock(msg[i+2:]) {
		return msg + "\n" + key + ": " + value
	}
	return msg + "\n\n" + key + ": " + value
}

func isTrailerBlock(paragraph string) bool {
	for _, line := range strings.Split(paragraph, "\n") {
		token, _, ok := strings.Cut(line, ": ")
		if !ok || token == "" || strings.ContainsAny(token, " \t") {
			return false
		}
	}
	return true
}
