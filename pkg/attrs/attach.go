package attrs

import (
	"github.com/open-cli-collective/mdattrs/pkg/md"
)

// AddAttrs attaches attrs to tok. class and css-module values join any
// existing attribute of the same name; other keys are appended even when
// they repeat. A nil tok is ignored.
func AddAttrs(attrs []md.Attr, tok *md.Token) {
	if tok == nil {
		return
	}
	for _, a := range attrs {
		switch a.Key {
		case "class", "css-module":
			tok.AttrJoin(a.Key, a.Value)
		default:
			tok.AttrPush(a)
		}
	}
}
