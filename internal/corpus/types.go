package corpus

import "io"

// Dep is a single secondary (enhanced) dependency arc of a token.
// Head is kept as written in the DEPS column since empty nodes use decimal ids ("8.1").
type Dep struct {
	Head string
	Rel  string
}

// Token is one annotated row of a CoBaLD sentence.
// Layers that were not requested from the Reader keep their zero value;
// Head and Deprel are nil in that case so that "not parsed" differs from "root".
type Token struct {
	ID       string
	Form     string
	Lemma    string
	UPOS     string
	XPOS     string
	Feats    map[string]string
	Head     *int
	Deprel   *string
	Deps     []Dep
	Misc     string
	Deepslot string
	// Semclass is empty when the token has no semantic class.
	Semclass string
}

// Sentence is an ordered sequence of tokens with its metadata comments.
type Sentence struct {
	ID     string
	Text   string
	Tokens []Token
}

// Len returns the number of tokens.
func (s *Sentence) Len() int {
	return len(s.Tokens)
}

// SentenceIterator is a finite, single-pass source of sentences.
// Next returns io.EOF once the source is exhausted.
type SentenceIterator interface {
	Next() (*Sentence, error)
}

// SliceIterator serves sentences from memory. Mostly useful in tests and for
// callers that already hold a parsed corpus.
type SliceIterator struct {
	sentences []Sentence
	pos       int
}

func (it *SliceIterator) Next() (*Sentence, error) {
	if it.pos >= len(it.sentences) {
		return nil, io.EOF
	}
	s := &it.sentences[it.pos]
	it.pos++
	return s, nil
}

func NewSliceIterator(sentences ...Sentence) *SliceIterator {
	return &SliceIterator{sentences: sentences}
}
