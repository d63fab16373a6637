package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringArray maps a Go string slice onto a postgres text[] column. The same
// literal is stored as TEXT on sqlite.
type StringArray []string

func (a *StringArray) Scan(src any) error {
	if src == nil {
		*a = StringArray{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return a.parseFromString(v)
	case []byte:
		return a.parseFromString(string(v))
	default:
		return fmt.Errorf("StringArray: unsupported Scan type %T", src)
	}
}

func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(a))
	for _, item := range a {
		parts = append(parts, quoteElement(item))
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

func quoteElement(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
	return `"` + escaped + `"`
}

func (a *StringArray) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "{}" {
		*a = StringArray{}
		return nil
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return fmt.Errorf("StringArray: malformed literal %q", s)
	}
	body := s[1 : len(s)-1]

	out := StringArray{}
	var (
		cur     strings.Builder
		quoted  bool
		inQuote bool
		escape  bool
	)
	flush := func() {
		value := cur.String()
		if !quoted {
			value = strings.TrimSpace(value)
		}
		out = append(out, value)
		cur.Reset()
		quoted = false
	}
	for _, r := range body {
		switch {
		case escape:
			cur.WriteRune(r)
			escape = false
		case r == '\\' && inQuote:
			escape = true
		case r == '"':
			inQuote = !inQuote
			quoted = true
		case r == ',' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return fmt.Errorf("StringArray: unterminated quote in %q", s)
	}
	flush()
	*a = out
	return nil
}
