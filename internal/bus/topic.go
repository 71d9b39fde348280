package bus

import "strings"

// TopicMatches reports whether topic matches the MQTT subscription filter,
// honouring the single-level (+) and multi-level (#) wildcards.
func TopicMatches(filter, topic string) bool {
	if filter == topic {
		return true
	}
	fs := strings.Split(filter, "/")
	ts := strings.Split(topic, "/")
	for i, f := range fs {
		if f == "#" {
			return i == len(fs)-1
		}
		if i >= len(ts) {
			return false
		}
		if f != "+" && f != ts[i] {
			return false
		}
	}
	return len(fs) == len(ts)
}
