package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatMoney renders an amount with thousands separators and no decimals,
// e.g. 1234567.8 -> "$1,234,568".
func FormatMoney(amount float64) string {
	neg := amount < 0
	n := int64(math.Round(math.Abs(amount)))
	s := groupThousands(strconv.FormatInt(n, 10))
	if neg && n != 0 {
		return "-$" + s
	}
	return "$" + s
}

// FormatCompact renders an amount in a short form for narrow columns:
// 950 -> "$950", 12500 -> "$12.5k", 3400000 -> "$3.4M".
func FormatCompact(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	switch {
	case amount >= 1e9:
		return sign + "$" + trimZero(fmt.Sprintf("%.1f", amount/1e9)) + "B"
	case amount >= 1e6:
		return sign + "$" + trimZero(fmt.Sprintf("%.1f", amount/1e6)) + "M"
	case amount >= 1e3:
		return sign + "$" + trimZero(fmt.Sprintf("%.1f", amount/1e3)) + "k"
	default:
		return sign + "$" + strconv.FormatInt(int64(math.Round(amount)), 10)
	}
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	head := len(digits) % 3
	if head > 0 {
		sb.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
