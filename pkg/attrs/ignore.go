package attrs

import (
	"fmt"
	"log/slog"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"

	"github.com/open-cli-collective/mdattrs/pkg/md"
)

var ignoreFileOptions = &syntax.FileOptions{}

// CompileIgnore compiles a Starlark expression over token into an Ignore
// predicate, for example:
//
//	token.type == "fence" and token.info.startswith("mermaid")
//
// token exposes type, tag, nesting, level, content, info, markup, block and
// hidden. An expression that fails at run time ignores nothing and is
// logged at warn level.
func CompileIgnore(expr string, logger *slog.Logger) (func(*md.Token) bool, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	thread := &starlark.Thread{Name: "ignore"}
	fn, err := starlark.EvalOptions(ignoreFileOptions, thread, "ignore", "lambda token: "+expr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compile ignore expression: %w", err)
	}
	fn.Freeze()

	return func(tok *md.Token) bool {
		thread := &starlark.Thread{Name: "ignore"}
		v, err := starlark.Call(thread, fn, starlark.Tuple{tokenValue(tok)}, nil)
		if err != nil {
			logger.Warn("ignore expression failed", "type", tok.Type, "error", err)
			return false
		}
		return bool(v.Truth())
	}, nil
}

func tokenValue(tok *md.Token) *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"type":    starlark.String(tok.Type),
		"tag":     starlark.String(tok.Tag),
		"nesting": starlark.MakeInt(int(tok.Nesting)),
		"level":   starlark.MakeInt(tok.Level),
		"content": starlark.String(tok.Content),
		"info":    starlark.String(tok.Info),
		"markup":  starlark.String(tok.Markup),
		"block":   starlark.Bool(tok.Block),
		"hidden":  starlark.Bool(tok.Hidden),
	})
}
