package corpus

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "# sent_id = 1\n" +
	"# text = Cats run.\n" +
	"1\tCats\tcat\tNOUN\tNNS\tNumber=Plur\t2\tnsubj\t2:nsubj\t_\tAgent\tANIMAL\n" +
	"2\trun\trun\tVERB\tVBP\tMood=Ind|Tense=Pres\t0\troot\t0:root\t_\tPredicate\tMOTION\n" +
	"3\t.\t.\tPUNCT\t.\t_\t2\tpunct\t2:punct\tSpaceAfter=No\t_\t_\n" +
	"\n" +
	"# sent_id = 2\n" +
	"1-2\tdon't\t_\t_\t_\t_\t_\t_\t_\t_\n" +
	"1\tdo\tdo\tAUX\tVBP\t_\t3\taux\t3:aux\t_\n" +
	"2\tn't\tnot\tPART\tRB\tPolarity=Neg\t3\tadvmod\t3:advmod|8.1:advmod\t_\n" +
	"3\tgo\tgo\tVERB\tVB\tVerbForm=Inf\t0\troot\t0:root\t_\n" +
	"3.1\tgo\tgo\tVERB\tVB\t_\t_\t_\t3:conj\t_\t_\t_\n"

func readAll(t *testing.T, r SentenceIterator) []*Sentence {
	t.Helper()
	var sentences []*Sentence
	for {
		s, err := r.Next()
		if err == io.EOF {
			return sentences
		}
		require.NoError(t, err)
		sentences = append(sentences, s)
	}
}

func TestReader_Next_AllTags(t *testing.T) {
	reader, err := NewReader(strings.NewReader(sample), OptionalTags)
	require.NoError(t, err)

	sentences := readAll(t, reader)
	require.Len(t, sentences, 2)

	first := sentences[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "Cats run.", first.Text)
	require.Equal(t, 3, first.Len())

	cats := first.Tokens[0]
	assert.Equal(t, "cat", cats.Lemma)
	assert.Equal(t, "NOUN", cats.UPOS)
	assert.Equal(t, "NNS", cats.XPOS)
	assert.Equal(t, map[string]string{"Number": "Plur"}, cats.Feats)
	require.NotNil(t, cats.Head)
	assert.Equal(t, 2, *cats.Head)
	require.NotNil(t, cats.Deprel)
	assert.Equal(t, "nsubj", *cats.Deprel)
	assert.Equal(t, []Dep{{Head: "2", Rel: "nsubj"}}, cats.Deps)
	assert.Equal(t, "Agent", cats.Deepslot)
	assert.Equal(t, "ANIMAL", cats.Semclass)

	punct := first.Tokens[2]
	assert.Empty(t, punct.Feats)
	assert.Equal(t, "SpaceAfter=No", punct.Misc)
	assert.Equal(t, "", punct.Semclass, "underscore must decode to the empty semclass")
}

func TestReader_Next_RangesAndEmptyNodes(t *testing.T) {
	reader, err := NewReader(strings.NewReader(sample), OptionalTags)
	require.NoError(t, err)

	sentences := readAll(t, reader)
	second := sentences[1]

	ids := make([]string, 0, second.Len())
	for _, token := range second.Tokens {
		ids = append(ids, token.ID)
	}
	assert.Equal(t, []string{"1", "2", "3", "3.1"}, ids, "range rows are skipped, empty nodes kept")

	assert.Equal(t, []Dep{{Head: "3", Rel: "advmod"}, {Head: "8.1", Rel: "advmod"}}, second.Tokens[1].Deps)
	assert.Nil(t, second.Tokens[3].Head, "empty node without head")
	assert.Equal(t, "", second.Tokens[0].Semclass, "missing CoBaLD columns decode as empty")
}

func TestReader_Next_SelectedTagsOnly(t *testing.T) {
	reader, err := NewReader(strings.NewReader(sample), []string{TagHead, TagDeprel})
	require.NoError(t, err)

	sentences := readAll(t, reader)
	token := sentences[0].Tokens[0]

	assert.Equal(t, "Cats", token.Form)
	assert.Empty(t, token.Lemma)
	assert.Empty(t, token.UPOS)
	assert.Nil(t, token.Feats)
	assert.Nil(t, token.Deps)
	assert.Empty(t, token.Semclass)
	require.NotNil(t, token.Head)
	assert.Equal(t, 2, *token.Head)
}

func TestReader_Next_LemmaImpliesUPOS(t *testing.T) {
	reader, err := NewReader(strings.NewReader(sample), []string{TagLemma})
	require.NoError(t, err)

	sentences := readAll(t, reader)
	assert.Equal(t, "NOUN", sentences[0].Tokens[0].UPOS)
}

func TestReader_Next_NoTrailingNewline(t *testing.T) {
	data := "1\ta\ta\tDET\t_\t_\t0\troot\t_\t_"
	reader, err := NewReader(strings.NewReader(data), OptionalTags)
	require.NoError(t, err)

	sentences := readAll(t, reader)
	require.Len(t, sentences, 1)
	assert.Equal(t, 1, sentences[0].Len())

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err, "reader is not restartable")
}

func TestReader_Next_Empty(t *testing.T) {
	reader, err := NewReader(strings.NewReader("\n\n"), OptionalTags)
	require.NoError(t, err)

	_, err = reader.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_Next_ParseErrors(t *testing.T) {
	cases := map[string]string{
		"too few fields":    "1\ta\ta\n",
		"too many fields":   "1\ta\ta\tDET\t_\t_\t0\troot\t_\t_\t_\t_\textra\n",
		"bad head":          "1\ta\ta\tDET\t_\t_\tx\troot\t_\t_\n",
		"bad feature":       "1\ta\ta\tDET\t_\tCase\t0\troot\t_\t_\n",
		"duplicate feature": "1\ta\ta\tDET\t_\tCase=Nom|Case=Gen\t0\troot\t_\t_\n",
		"bad deps":          "1\ta\ta\tDET\t_\t_\t0\troot\troot\t_\n",
		"first id":          "2\ta\ta\tDET\t_\t_\t0\troot\t_\t_\n",
		"invalid id":        "x\ta\ta\tDET\t_\t_\t0\troot\t_\t_\n",
		"orphan empty node": "1.1\ta\ta\tDET\t_\t_\t_\t_\t_\t_\n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			reader, err := NewReader(strings.NewReader("# sent_id = x\n"+data), OptionalTags)
			require.NoError(t, err)

			_, err = reader.Next()
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, 2, parseErr.Line)
		})
	}
}

func TestReader_Next_ReorderedIDs(t *testing.T) {
	data := "1\tCats\tcat\tNOUN\t_\t_\t2\tnsubj\t_\t_\n" +
		"3\t.\t.\tPUNCT\t_\t_\t2\tpunct\t_\t_\n" +
		"2\trun\trun\tVERB\t_\t_\t0\troot\t_\t_\n"
	reader, err := NewReader(strings.NewReader(data), OptionalTags)
	require.NoError(t, err)

	_, err = reader.Next()
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Contains(t, parseErr.Reason, "'3'")
}

func TestNewReader_UnknownTag(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), []string{"lemmas"})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.conllu")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	reader, err := Open(path, OptionalTags)
	require.NoError(t, err)
	defer reader.Close()

	assert.Len(t, readAll(t, reader), 2)

	_, err = Open(filepath.Join(t.TempDir(), "missing.conllu"), OptionalTags)
	assert.Error(t, err)
}

func TestSliceIterator_Next(t *testing.T) {
	it := NewSliceIterator(Sentence{ID: "a"}, Sentence{ID: "b"})

	s, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", s.ID)
	s, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, "b", s.ID)
	_, err = it.Next()
	assert.Equal(t, io.EOF, err)
}
