package generation

import "github.com/CityFriends/truebid-calculator-sub000/internal/domain"

// malformedNumber is what an unparsable existing number counts as.
var malformedNumber = domain.WBSNumber{Major: 1, Minor: 0}

// NextNumbers mints count sequential WBS numbers that sort after every
// entry in existing. New numbers stay under the major of the highest
// existing entry and increment its minor. Malformed entries count as "1.0".
func NextNumbers(existing []string, count int) []string {
	if count <= 0 {
		return []string{}
	}
	highest := HighestNumber(existing)
	out := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, domain.WBSNumber{Major: highest.Major, Minor: highest.Minor + i}.String())
	}
	return out
}

// HighestNumber returns the greatest (major, minor) entry of existing.
// An empty list yields "1.0" so the first minted number is "1.1".
func HighestNumber(existing []string) domain.WBSNumber {
	highest := malformedNumber
	for _, s := range existing {
		n := parseOrDefault(s)
		if highest.Less(n) {
			highest = n
		}
	}
	return highest
}

// ValidNumber reports whether s is a well formed number with both parts >= 1.
func ValidNumber(s string) bool {
	n, ok := domain.ParseWBSNumber(s)
	return ok && n.Major >= 1 && n.Minor >= 1
}

func parseOrDefault(s string) domain.WBSNumber {
	n, ok := domain.ParseWBSNumber(s)
	if !ok {
		return malformedNumber
	}
	return n
}

// ReconcileNumbers returns numbers with every entry that is malformed,
// repeated, or not after the highest existing number replaced by a freshly
// minted one. Valid entries keep their position and value; replacements are
// minted after both the existing numbers and the kept entries.
func ReconcileNumbers(numbers, existing []string) []string {
	floor := HighestNumber(existing)
	seen := append([]string(nil), existing...)
	taken := make(map[string]bool, len(existing)+len(numbers))
	for _, s := range existing {
		taken[s] = true
	}

	out := make([]string, len(numbers))
	var replace []int
	for i, s := range numbers {
		n, ok := domain.ParseWBSNumber(s)
		if !ok || !ValidNumber(s) || !floor.Less(n) || taken[n.String()] {
			replace = append(replace, i)
			continue
		}
		out[i] = n.String()
		taken[out[i]] = true
		seen = append(seen, out[i])
	}
	for _, i := range replace {
		out[i] = NextNumbers(seen, 1)[0]
		seen = append(seen, out[i])
	}
	return out
}
