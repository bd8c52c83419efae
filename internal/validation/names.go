package validation

import (
	"reflect"
	"strings"
)

var nameTags = []string{"query", "json", "param"}

func fieldName(sf reflect.StructField) string {
	for _, tag := range nameTags {
		name := strings.SplitN(sf.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}
	return sf.Name
}
