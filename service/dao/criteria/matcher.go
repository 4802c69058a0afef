package criteria

import (
	"strings"

	"github.com/viant/hourly/service/dao"
)

// FilterByName reports whether name satisfies every "Name" parameter, compared case-insensitively.
func FilterByName(name string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != "Name" {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			if !strings.EqualFold(name, actual) {
				return false
			}
		case []string:
			matched := false
			for _, candidate := range actual {
				if strings.EqualFold(name, candidate) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}
