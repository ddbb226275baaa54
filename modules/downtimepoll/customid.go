package downtimepoll

import (
	"strings"
)

const customIdPrefix = "downtimepoll"

// NavigationId is the custom ID carried by the paging buttons of a guess list.
// Parts are separated by ";" because session IDs contain dashes.
type NavigationId struct {
	Action  string
	Session string
}

func (c *NavigationId) ToString() string {
	parts := []string{customIdPrefix}

	if c.Action != "" {
		parts = append(parts, "action:"+c.Action)
	}
	if c.Session != "" {
		parts = append(parts, "session:"+c.Session)
	}

	return strings.Join(parts, ";")
}

// FromString fills c from a custom ID and reports whether it belongs to this
// module.
func (c *NavigationId) FromString(source string) bool {
	parts := strings.Split(source, ";")
	if len(parts) == 0 || parts[0] != customIdPrefix {
		return false
	}

	for _, v := range parts[1:] {
		pair := strings.SplitN(v, ":", 2)
		if len(pair) != 2 {
			continue
		}
		key := pair[0]
		value := pair[1]

		switch key {
		case "action":
			c.Action = value
		case "session":
			c.Session = value
		}
	}

	return c.Action != "" && c.Session != ""
}
