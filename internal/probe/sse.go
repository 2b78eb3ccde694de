package probe

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

// doneSentinel terminates OpenAI-style SSE streams.
const doneSentinel = "[DONE]"

// firstSSEPayload scans newline-delimited server-sent-event framing and
// returns the first "data:" payload that parses as JSON, skipping the
// [DONE] sentinel.
func firstSSEPayload(body []byte) (gjson.Result, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == doneSentinel {
			continue
		}
		if gjson.Valid(payload) {
			return gjson.Parse(payload), true
		}
	}
	return gjson.Result{}, false
}
