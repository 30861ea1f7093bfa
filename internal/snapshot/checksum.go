package snapshot

import "fmt"

// Checksum is an order-sensitive rolling hash over the serialized
// payload. It flags gross corruption or truncation of a stored backup;
// it is deliberately not a cryptographic digest and implies no
// integrity guarantee.
func Checksum(data []byte) string {
	var h int32
	for _, b := range data {
		h = (h << 5) - h + int32(b)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return fmt.Sprintf("%08x", v)
}
