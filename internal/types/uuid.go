package types

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

const (
	// prefixes for entity identifiers
	UUID_PREFIX_INVOICE           = "inv"
	UUID_PREFIX_INVOICE_LINE_ITEM = "inv_line"
	UUID_PREFIX_SALES_RETURN      = "sret"
	UUID_PREFIX_SALES_RETURN_LINE = "sret_line"
	UUID_PREFIX_SEQUENCE          = "seq"
	UUID_PREFIX_REQUEST           = "req"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

// GenerateShortIDWithPrefix returns a short unique identifier with a prefix
// Total length is capped at 12 characters including the prefix and separator.
func GenerateShortIDWithPrefix(prefix string) string {
	id := fmt.Sprintf("%s%s", prefix, shortid.MustGenerate())
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
