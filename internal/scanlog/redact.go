package scanlog

import "strings"

// Query parameters whose values never belong in a log file.
var redactedParams = []string{"key", "sessionid", "steamLoginSecure"}

const redactedValue = "***"

// Redact rewrites every credential-bearing `name=<value>` fragment so the
// value never reaches disk. The value span runs to the next '&' or the end
// of the string; the scan repeats until no fragment remains, so a message
// with several URLs comes out clean.
func Redact(message string) string {
	for _, param := range redactedParams {
		message = redactParam(message, param+"=")
	}
	return message
}

func redactParam(message, prefix string) string {
	var sb strings.Builder
	rest := message
	for {
		idx := strings.Index(rest, prefix)
		if idx < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		valueStart := idx + len(prefix)
		valueEnd := strings.IndexByte(rest[valueStart:], '&')
		if valueEnd < 0 {
			valueEnd = len(rest)
		} else {
			valueEnd += valueStart
		}
		sb.WriteString(rest[:valueStart])
		sb.WriteString(redactedValue)
		rest = rest[valueEnd:]
	}
}
