package inventory

import (
	"fmt"
	"time"
)

// GenerateSKU builds a date-stamped SKU with a four-digit random suffix,
// used when the product form leaves the SKU blank.
func GenerateSKU(now time.Time, intn func(int) int) string {
	return fmt.Sprintf("SKU-%s-%d", now.UTC().Format("20060102"), 1000+intn(9000))
}
