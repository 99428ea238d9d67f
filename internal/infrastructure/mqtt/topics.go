package mqtt

import "strings"

// DefaultTopicPrefix is used when the configured prefix is empty.
const DefaultTopicPrefix = "graystore"

// Topics builds the topic names graystore publishes on.
//
//	topics := mqtt.Topics{Prefix: "graystore"}
//	topics.Tag("heads/main") // "graystore/tags/heads/main"
//	topics.SystemStatus()    // "graystore/system/status"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.Trim(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// Tag returns the topic carrying changes to one tag. Tag segments map onto
// topic levels, so subscribers can use "+" and "#" over tag prefixes.
func (t Topics) Tag(tag string) string {
	return t.prefix() + "/tags/" + tag
}

// AllTags returns a wildcard matching every tag topic.
func (t Topics) AllTags() string {
	return t.prefix() + "/tags/#"
}

// SystemStatus returns the retained online/offline status topic.
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}
