package intake

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// encodeAsync converts raw image bytes into a self-contained data URI on a
// separate goroutine, delivering exactly one result on the returned
// channel. When mimeType is empty the type is sniffed from the payload.
// No size limit, scanning, or compression is applied.
func encodeAsync(image []byte, mimeType string) <-chan string {
	done := make(chan string, 1)
	go func() {
		if mimeType == "" {
			mimeType = http.DetectContentType(image)
		}

		var b strings.Builder
		b.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(image)))
		b.WriteString("data:")
		b.WriteString(mimeType)
		b.WriteString(";base64,")
		b.WriteString(base64.StdEncoding.EncodeToString(image))

		done <- b.String()
	}()
	return done
}
