package utils

// IsValidWord reports whether a token is worth storing or querying: ASCII
// letters with at most word-internal apostrophes, and not a keyboard mash
// like "wwww". Corpus cleaning produces such tokens already; direct adds
// over the wire arrive unclean.
func IsValidWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch {
		case isAlpha(s[i]):
		case s[i] == '\'' && i > 0 && i+1 < len(s) && isAlpha(s[i-1]) && isAlpha(s[i+1]):
		default:
			return false
		}
	}
	return !IsRepetitive(s)
}

// IsValidPrefix is IsValidWord relaxed for mid-typing input: a trailing
// apostrophe passes because the next keystroke may extend it into a
// contraction.
func IsValidPrefix(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch {
		case isAlpha(s[i]):
		case s[i] == '\'' && i > 0 && isAlpha(s[i-1]) && (i+1 == len(s) || isAlpha(s[i+1])):
		default:
			return false
		}
	}
	return !IsRepetitive(s)
}

// IsRepetitive reports whether s is a single character repeated three or
// more times.
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
