package extractor

import (
	"io"
	"strings"
)

func stringsReader(body string) io.Reader {
	return strings.NewReader("<html><body>" + body + "</body></html>")
}
