package naming

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/dsprep/internal/config"
)

// Classify returns the first rule whose prefix matches the lowercased base
// name of filename. Rules are tried in configured order; ok is false when no
// prefix matches.
func Classify(filename string, rules []config.ClassRule) (rule config.ClassRule, ok bool) {
	base := strings.ToLower(filepath.Base(filename))
	for _, r := range rules {
		if strings.HasPrefix(base, strings.ToLower(r.Prefix)) {
			return r, true
		}
	}
	return config.ClassRule{}, false
}

// OutputPath builds the destination of file inside tree for class:
//
//	<tree>/<class>/<basename>
func OutputPath(tree, class, file string) string {
	return filepath.Join(tree, class, filepath.Base(file))
}
