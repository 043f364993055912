package domain_test

import (
	"strconv"
	"time"
)

var timeZero time.Time

func itoa(i int) string { return strconv.Itoa(i) }
