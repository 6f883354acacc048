package domain

import "strings"

// DialCode is a validated USSD string, e.g. "*123#" or "*100*1#".
type DialCode string

// ParseDialCode validates s and returns it as a DialCode.
// The whole string must match *<digits>[*<digits>...]#; callers trim user input first.
func ParseDialCode(s string) (DialCode, error) {
	if s == "" {
		return "", &DialCodeError{Input: s, Reason: "is empty"}
	}
	if !strings.HasPrefix(s, "*") {
		return "", &DialCodeError{Input: s, Reason: "must start with *"}
	}
	if !strings.HasSuffix(s, "#") {
		return "", &DialCodeError{Input: s, Reason: "must end with #"}
	}

	interior := s[1 : len(s)-1]
	if interior == "" {
		return "", &DialCodeError{Input: s, Reason: "has no service digits"}
	}
	for _, group := range strings.Split(interior, "*") {
		if group == "" {
			return "", &DialCodeError{Input: s, Reason: "has an empty * group"}
		}
		for _, r := range group {
			if r < '0' || r > '9' {
				return "", &DialCodeError{Input: s, Reason: "may only contain digits between * separators"}
			}
		}
	}
	return DialCode(s), nil
}

// MustParseDialCode is like ParseDialCode but panics on error. Intended for tables and tests.
func MustParseDialCode(raw string) DialCode {
	code, err := ParseDialCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

func (c DialCode) String() string { return string(c) }
