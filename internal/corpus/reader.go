package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	fieldSeparator    = "\t"
	featuresSeparator = "|"
	featureSeparator  = "="
	depsSeparator     = "|"
	depSeparator      = ":"
	emptyField        = "_"

	// CoNLL-U columns; CoBaLD appends DEEPSLOT and SEMCLASS.
	minFields  = 10
	fullFields = 12

	maxLineSize = 1024 * 1024
)

// Optional annotation layers the Reader can populate.
const (
	TagLemma    = "lemma"
	TagUPOS     = "upos"
	TagXPOS     = "xpos"
	TagFeats    = "feats"
	TagHead     = "head"
	TagDeprel   = "deprel"
	TagDeps     = "deps"
	TagMisc     = "misc"
	TagDeepslot = "deepslot"
	TagSemclass = "semclass"
)

// OptionalTags lists every layer in column order.
var OptionalTags = []string{
	TagLemma, TagUPOS, TagXPOS, TagFeats, TagHead, TagDeprel, TagDeps, TagMisc, TagDeepslot, TagSemclass,
}

// ParseError reports a malformed line of a CoBaLD file.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func NewParseError(line int, reason string) *ParseError {
	return &ParseError{Line: line, Reason: reason}
}

// Reader lazily decodes sentences from a CoBaLD (CoNLL-U plus DEEPSLOT/SEMCLASS) stream.
// Only the layers listed in tags are populated; FORM and ID are always read.
// Reader implements SentenceIterator.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	tags    map[string]bool
	line    int
	done    bool
}

// NewReader validates the tag list and wraps r.
func NewReader(r io.Reader, tags []string) (*Reader, error) {
	known := make(map[string]bool, len(OptionalTags))
	for _, t := range OptionalTags {
		known[t] = true
	}
	selected := make(map[string]bool, len(tags))
	for _, t := range tags {
		if !known[t] {
			return nil, fmt.Errorf("unknown tag '%s'", t)
		}
		selected[t] = true
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Reader{scanner: scanner, tags: selected}, nil
}

// Open opens a CoBaLD file. The caller must Close the reader.
func Open(path string, tags []string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	reader, err := NewReader(f, tags)
	if err != nil {
		f.Close()
		return nil, err
	}
	reader.closer = f
	return reader, nil
}

// Close releases the underlying file, if the reader owns one.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Next returns the next sentence or io.EOF when the stream is exhausted.
func (r *Reader) Next() (*Sentence, error) {
	if r.done {
		return nil, io.EOF
	}

	var sentence *Sentence
	words := 0
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			if sentence != nil {
				return sentence, nil
			}
			continue
		}

		if sentence == nil {
			sentence = &Sentence{}
		}

		if strings.HasPrefix(line, "#") {
			parseComment(sentence, line)
			continue
		}

		token, skip, err := r.parseToken(line)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		if err := checkID(token.ID, words); err != nil {
			return nil, NewParseError(r.line, err.Error())
		}
		if !strings.Contains(token.ID, ".") {
			words++
		}
		sentence.Tokens = append(sentence.Tokens, token)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	r.done = true
	if sentence != nil {
		return sentence, nil
	}
	return nil, io.EOF
}

// checkID requires word ids to run 1, 2, 3... and an empty node "N.M" to
// follow word N.
func checkID(id string, words int) error {
	word, node, isNode := strings.Cut(id, ".")
	n, err := strconv.Atoi(word)
	if err != nil {
		return fmt.Errorf("invalid id '%s'", id)
	}
	if isNode {
		if _, err := strconv.Atoi(node); err != nil || n != words {
			return fmt.Errorf("empty node '%s' does not follow word %d", id, words)
		}
		return nil
	}
	if n != words+1 {
		return fmt.Errorf("id '%s' out of order, expected %d", id, words+1)
	}
	return nil
}

func parseComment(sentence *Sentence, line string) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	key, value, found := strings.Cut(body, "=")
	if !found {
		return
	}
	switch strings.TrimSpace(key) {
	case "sent_id":
		sentence.ID = strings.TrimSpace(value)
	case "text":
		sentence.Text = strings.TrimSpace(value)
	}
}

// parseToken decodes one token row. Multiword range rows ("1-2") are skipped.
func (r *Reader) parseToken(line string) (Token, bool, error) {
	var token Token
	fields := strings.Split(line, fieldSeparator)
	if len(fields) < minFields {
		return token, false, NewParseError(r.line, fmt.Sprintf("expected at least %d fields, got %d", minFields, len(fields)))
	}
	if len(fields) > fullFields {
		return token, false, NewParseError(r.line, fmt.Sprintf("expected at most %d fields, got %d", fullFields, len(fields)))
	}

	token.ID = fields[0]
	if strings.Contains(token.ID, "-") {
		return token, true, nil
	}
	token.Form = fields[1]

	if r.tags[TagLemma] {
		token.Lemma = parseString(fields[2])
	}
	// UPOS drives lemma weighting, so it is read along with lemmas.
	if r.tags[TagUPOS] || r.tags[TagLemma] {
		token.UPOS = parseString(fields[3])
	}
	if r.tags[TagXPOS] {
		token.XPOS = parseString(fields[4])
	}
	if r.tags[TagFeats] {
		feats, err := parseFeatures(fields[5])
		if err != nil {
			return token, false, NewParseError(r.line, err.Error())
		}
		token.Feats = feats
	}
	if r.tags[TagHead] && fields[6] != emptyField {
		head, err := strconv.Atoi(fields[6])
		if err != nil {
			return token, false, NewParseError(r.line, fmt.Sprintf("invalid head '%s'", fields[6]))
		}
		token.Head = &head
	}
	if r.tags[TagDeprel] && fields[7] != emptyField {
		deprel := fields[7]
		token.Deprel = &deprel
	}
	if r.tags[TagDeps] {
		deps, err := parseDeps(fields[8])
		if err != nil {
			return token, false, NewParseError(r.line, err.Error())
		}
		token.Deps = deps
	}
	if r.tags[TagMisc] {
		token.Misc = parseString(fields[9])
	}
	if r.tags[TagDeepslot] && len(fields) > 10 {
		token.Deepslot = parseString(fields[10])
	}
	if r.tags[TagSemclass] && len(fields) > 11 {
		token.Semclass = parseString(fields[11])
	}
	return token, false, nil
}

func parseString(value string) string {
	if value == emptyField {
		return ""
	}
	return value
}

func parseFeatures(value string) (map[string]string, error) {
	feats := make(map[string]string)
	if value == emptyField || value == "" {
		return feats, nil
	}
	for _, pair := range strings.Split(value, featuresSeparator) {
		name, featValue, found := strings.Cut(pair, featureSeparator)
		if !found || name == "" || featValue == "" {
			return nil, fmt.Errorf("malformed feature '%s'", pair)
		}
		if _, exists := feats[name]; exists {
			return nil, fmt.Errorf("duplicate feature category '%s'", name)
		}
		feats[name] = featValue
	}
	return feats, nil
}

// parseDeps splits "3:nsubj|5:conj:and" into unique arcs sorted by head and relation.
// Only the first colon separates head from relation.
func parseDeps(value string) ([]Dep, error) {
	if value == emptyField || value == "" {
		return nil, nil
	}
	seen := make(map[Dep]bool)
	deps := make([]Dep, 0, strings.Count(value, depsSeparator)+1)
	for _, arc := range strings.Split(value, depsSeparator) {
		head, rel, found := strings.Cut(arc, depSeparator)
		if !found || head == "" || rel == "" {
			return nil, fmt.Errorf("malformed dependency '%s'", arc)
		}
		dep := Dep{Head: head, Rel: rel}
		if seen[dep] {
			continue
		}
		seen[dep] = true
		deps = append(deps, dep)
	}
	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Head != deps[j].Head {
			return deps[i].Head < deps[j].Head
		}
		return deps[i].Rel < deps[j].Rel
	})
	return deps, nil
}

