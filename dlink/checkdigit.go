package dlink

import "strings"

// DefaultKeyLength is the length GTINs are padded to.
const DefaultKeyLength = 14

// CheckDigit computes the GS1 mod-10 check digit over digits, which must not
// include a check digit. Weights alternate 3,1,3,... starting from the
// rightmost digit. Any non-digit character makes the result 0.
func CheckDigit(digits string) int {
	sum := 0
	weight := 3
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return 0
		}
		sum += int(c-'0') * weight
		weight = 4 - weight
	}
	return (sum+9)/10*10 - sum
}

// AddCheckDigitAndZeroPad appends the check digit to digits and left-pads the
// result with zeros to length. length <= 0 means DefaultKeyLength. Values
// already at or over length are not truncated.
func AddCheckDigitAndZeroPad(digits string, length int) string {
	if length <= 0 {
		length = DefaultKeyLength
	}
	withCheck := digits + string(rune('0'+CheckDigit(digits)))
	return zeroPad(withCheck, length)
}

func zeroPad(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat("0", length-len(s)) + s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
