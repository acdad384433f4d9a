// Package accountcode implements the dot-delimited hierarchical account codes,
// e.g. "1" for a main account and "1.1.3" for the third child of "1.1".
package accountcode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-petr/pet-ledger/internal/domain"
)

const separator = "."

// Parse splits the code into its numeric segments.
//
// Every segment must be a positive integer without sign or leading zeros.
func Parse(code string) ([]int, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty code", domain.ErrInvalidCodeFormat)
	}

	parts := strings.Split(code, separator)
	segments := make([]int, len(parts))

	for i, p := range parts {
		if p == "" || p[0] == '0' || p[0] == '+' || p[0] == '-' {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCodeFormat, code)
		}

		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidCodeFormat, code)
		}

		segments[i] = n
	}

	return segments, nil
}

// Depth returns the number of segments of a well-formed code.
func Depth(code string) (int, error) {
	segments, err := Parse(code)
	if err != nil {
		return 0, err
	}

	return len(segments), nil
}

// Last returns the sibling index of the code, i.e. its last segment.
func Last(code string) (int, error) {
	segments, err := Parse(code)
	if err != nil {
		return 0, err
	}

	return segments[len(segments)-1], nil
}

// Child composes the code of the n-th child of parent.
func Child(parent string, n int) string {
	return parent + separator + strconv.Itoa(n)
}

// Main returns the code of the n-th main account.
func Main(n int) string {
	return strconv.Itoa(n)
}

// Next returns the sibling index following the numerically largest of the given codes.
//
// Siblings share every segment but the last, so only last segments are compared.
// An empty list yields 1.
func Next(siblings []string) (int, error) {
	max := 0

	for _, code := range siblings {
		n, err := Last(code)
		if err != nil {
			return 0, err
		}

		if n > max {
			max = n
		}
	}

	return max + 1, nil
}

// Compare orders codes numerically segment by segment, so "1.2" < "1.10" and a
// parent sorts before its children.
func Compare(a, b string) (int, error) {
	sa, err := Parse(a)
	if err != nil {
		return 0, err
	}

	sb, err := Parse(b)
	if err != nil {
		return 0, err
	}

	for i := 0; i < len(sa) && i < len(sb); i++ {
		switch {
		case sa[i] < sb[i]:
			return -1, nil
		case sa[i] > sb[i]:
			return 1, nil
		}
	}

	switch {
	case len(sa) < len(sb):
		return -1, nil
	case len(sa) > len(sb):
		return 1, nil
	}

	return 0, nil
}

// IsChildOf reports whether code is a direct child code of parent.
func IsChildOf(code, parent string) bool {
	if !strings.HasPrefix(code, parent+separator) {
		return false
	}

	rest := strings.TrimPrefix(code, parent+separator)

	return rest != "" && !strings.Contains(rest, separator)
}
