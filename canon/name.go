package canon

import "github.com/parolgo/parol/util"

// GenerateName implements spec.md §9's generate_name: returns preferred if
// it is not already in existing; otherwise strips preferred's trailing
// decimal suffix to obtain (base, n0) and returns the first base+n with
// n >= n0 that is not in existing. This keeps synthesised names stable and
// reproducible across runs, since it never depends on map iteration order
// or a counter carried across calls.
func GenerateName(existing *util.OrderedSet[string], preferred string) string {
	if !existing.Has(preferred) {
		return preferred
	}

	base, n0 := splitTrailingDigits(preferred)
	for n := n0; ; n++ {
		candidate := base + itoa(n)
		if !existing.Has(candidate) {
			return candidate
		}
	}
}

// splitTrailingDigits splits s into a non-digit prefix and the integer
// value of its trailing decimal run. A suffix-less s yields (s, 0).
func splitTrailingDigits(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0
	}
	n := 0
	for _, c := range s[i:] {
		n = n*10 + int(c-'0')
	}
	return s[:i], n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
