package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	t.Run("extracts url key", func(t *testing.T) {
		doc, err := NewDocument([]byte(`{"url":"https://api.github.com/repos/a/b","id":42}`))

		require.NoError(t, err)
		assert.Equal(t, "https://api.github.com/repos/a/b", doc.URL)
		assert.True(t, doc.HasKey())
	})

	t.Run("missing key is allowed", func(t *testing.T) {
		doc, err := NewDocument([]byte(`{"id":42}`))

		require.NoError(t, err)
		assert.False(t, doc.HasKey())
	})

	t.Run("rejects non-objects", func(t *testing.T) {
		for _, raw := range []string{``, `[]`, `42`, `"x"`, `{"url":`} {
			_, err := NewDocument([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidInput, raw)
		}
	})
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	input := `[{"url":"a","n":1,"nested":{"x":[1,2]}},{"url":"b","big":9007199254740993}]`

	var docs []Document
	require.NoError(t, json.Unmarshal([]byte(input), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, []string{"a", "b"}, Keys(docs))

	out, err := json.Marshal(docs)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
	assert.Contains(t, string(out), "9007199254740993")
}

func TestDocument_Fields(t *testing.T) {
	doc := MustDocument(`{"url":"a","name":"n"}`)

	fields, err := doc.Fields()

	require.NoError(t, err)
	assert.JSONEq(t, `"n"`, string(fields["name"]))
}

func TestParentFromDocument(t *testing.T) {
	doc := MustDocument(`{"url":"u","name":"repo","default_branch":"main","owner":{"login":"octo"}}`)

	p, err := ParentFromDocument(doc)

	require.NoError(t, err)
	assert.Equal(t, Parent{Owner: "octo", Name: "repo", DefaultBranch: "main"}, p)
	assert.Equal(t, "octo_repo", p.Identifier())
	assert.Equal(t, "octo/repo", p.FullName())

	_, err = ParentFromDocument(MustDocument(`{"url":"u","name":"repo"}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParent_IdentifierIsUnambiguous(t *testing.T) {
	a := Parent{Owner: "foo-bar", Name: "baz"}
	b := Parent{Owner: "foo", Name: "bar-baz"}

	assert.NotEqual(t, a.Identifier(), b.Identifier())
	assert.Equal(t, "foo-bar_baz", a.Identifier())
	assert.Equal(t, "foo_bar-baz", b.Identifier())
}

func TestSnapshotSet_Documents(t *testing.T) {
	set := &SnapshotSet{
		Batches: [][]Document{
			{MustDocument(`{"url":"a"}`)},
			{MustDocument(`{"url":"b"}`), MustDocument(`{"url":"c"}`)},
		},
	}

	assert.Equal(t, 3, set.Count())
	assert.Equal(t, []string{"a", "b", "c"}, Keys(set.Documents()))
}

func TestDocument_Merge(t *testing.T) {
	existing := MustDocument(`{"url":"u1","name":"old","stars":1,"archived":false}`)
	update := MustDocument(`{"url":"u1","name":"new","stars":5}`)

	merged, err := existing.Merge(update)

	require.NoError(t, err)
	assert.Equal(t, "u1", merged.URL)
	assert.JSONEq(t, `{"url":"u1","name":"new","stars":5,"archived":false}`, string(merged.Raw))
}
