package scorer

import (
	"cobald/internal/corpus"
	"cobald/internal/score"
	"sort"
	"strconv"
	"strings"
)

// Mismatch is a token comparison that scored below 1.
type Mismatch struct {
	Category   score.Category `json:"category"`
	Sentence   int            `json:"sentence"`
	SentenceID string         `json:"sent_id,omitempty"`
	Token      string         `json:"token"`
	Form       string         `json:"form"`
	Test       string         `json:"test"`
	Gold       string         `json:"gold"`
	Score      float64        `json:"score"`
}

func newMismatch(c score.Category, index int, sentenceID string, test, gold *corpus.Token, s float64) Mismatch {
	return Mismatch{
		Category:   c,
		Sentence:   index,
		SentenceID: sentenceID,
		Token:      gold.ID,
		Form:       gold.Form,
		Test:       LayerValue(c, test),
		Gold:       LayerValue(c, gold),
		Score:      s,
	}
}

// LayerValue renders the layer of t compared by category c in CoNLL-U notation.
func LayerValue(c score.Category, t *corpus.Token) string {
	switch c {
	case score.CategoryLemma:
		return emptyAsUnderscore(t.Lemma)
	case score.CategoryUPOS:
		return emptyAsUnderscore(t.UPOS)
	case score.CategoryXPOS:
		return emptyAsUnderscore(t.XPOS)
	case score.CategoryFeats:
		return formatFeats(t.Feats)
	case score.CategoryUD:
		head := "_"
		if t.Head != nil {
			head = strconv.Itoa(*t.Head)
		}
		deprel := "_"
		if t.Deprel != nil {
			deprel = *t.Deprel
		}
		return head + ":" + deprel
	case score.CategoryEUD:
		if len(t.Deps) == 0 {
			return "_"
		}
		arcs := make([]string, len(t.Deps))
		for i, d := range t.Deps {
			arcs[i] = d.Head + ":" + d.Rel
		}
		return strings.Join(arcs, "|")
	case score.CategoryDeepslot:
		return emptyAsUnderscore(t.Deepslot)
	case score.CategorySemclass:
		return emptyAsUnderscore(t.Semclass)
	}
	return ""
}

func emptyAsUnderscore(s string) string {
	if s == "" {
		return "_"
	}
	return s
}

func formatFeats(feats map[string]string) string {
	if len(feats) == 0 {
		return "_"
	}
	pairs := make([]string, 0, len(feats))
	for k, v := range feats {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "|")
}
