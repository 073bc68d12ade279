package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTierRank converts a prize map key such as "1" into its tier rank.
func ParseTierRank(s string) (int, error) {
	rank, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid tier rank %q: %w", s, err)
	}
	if rank < 1 {
		return 0, fmt.Errorf("invalid tier rank %q: must be positive", s)
	}
	return rank, nil
}

// ParseUSBID parses a 16-bit USB identifier written as hex ("0x0416") or decimal.
func ParseUSBID(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid USB id %q: %w", s, err)
	}
	return uint16(v), nil
}

// JoinInts renders nums separated by sep.
func JoinInts(nums []int, sep string) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}
