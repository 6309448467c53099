package main

import (
	"fmt"
	"strconv"
	"strings"
)

// sizesFlag is a comma separated list of positive numbers.
type sizesFlag []int

func (s *sizesFlag) String() string {
	parts := make([]string, len(*s))
	for i, v := range *s {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (s *sizesFlag) Set(value string) error {
	var sizes []int
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return fmt.Errorf("invalid size %q", part)
		}
		sizes = append(sizes, n)
	}
	*s = sizes
	return nil
}
