package aprs

import "fmt"

// Range of digits for base-91 representation.
const (
	base91Min = '!'
	base91Max = '{'
)

// DecodeBase91 decodes s as a big-endian base-91 number.
// Every character must lie in '!'..'{'; anything else is an error.
func DecodeBase91(s string) (uint64, error) {
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < base91Min || c > base91Max {
			return 0, fmt.Errorf("invalid base-91 character %q at offset %d", c, i)
		}
		n = n*91 + uint64(c-base91Min)
	}
	return n, nil
}
