package md

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuler_Order(t *testing.T) {
	var r Ruler
	var ran []string
	record := func(name string) RuleFunc {
		return func(*State) error {
			ran = append(ran, name)
			return nil
		}
	}

	r.Push("block", record("block"))
	r.Push("inline", record("inline"))
	require.NoError(t, r.After("block", "after_block", record("after_block")))
	require.NoError(t, r.Before("block", "first", record("first")))
	require.NoError(t, r.After("inline", "last", record("last")))

	assert.Equal(t, []string{"first", "block", "after_block", "inline", "last"}, r.Names())

	require.NoError(t, r.Process(&State{}))
	assert.Equal(t, r.Names(), ran)
}

func TestRuler_MissingAnchor(t *testing.T) {
	var r Ruler
	r.Push("block", func(*State) error { return nil })

	err := r.After("inline", "x", func(*State) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "core rule not found: inline")

	err = r.Before("nope", "x", func(*State) error { return nil })
	require.Error(t, err)
	assert.Equal(t, []string{"block"}, r.Names())
}

func TestRuler_StopsAtError(t *testing.T) {
	var r Ruler
	boom := errors.New("boom")
	called := false
	r.Push("bad", func(*State) error { return boom })
	r.Push("never", func(*State) error {
		called = true
		return nil
	})

	err := r.Process(&State{})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "core rule bad")
	assert.False(t, called)
}

func TestExpandInline(t *testing.T) {
	deferred := &Token{Type: "inline", inline: func() []*Token {
		return []*Token{{Type: "text", Content: "x"}}
	}}
	empty := &Token{Type: "inline", inline: func() []*Token { return nil }}
	plain := &Token{Type: "paragraph_open"}

	s := &State{Tokens: []*Token{plain, deferred, empty}}
	require.NoError(t, expandInline(s))

	assert.Nil(t, plain.Children)
	require.Len(t, deferred.Children, 1)
	assert.Equal(t, "x", deferred.Children[0].Content)
	assert.NotNil(t, empty.Children)
	assert.Empty(t, empty.Children)
	assert.Nil(t, deferred.inline)
}
