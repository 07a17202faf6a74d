package rule

import (
	"cobald/internal/corpus"

	"github.com/google/cel-go/cel"
)

// noHead is exposed as the head of tokens without a parsed HEAD column.
const noHead = -1

// NewTokenEnv declares the token variables available to filters.
func NewTokenEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		// --- Surface ---
		cel.Variable("id", cel.StringType),
		cel.Variable("form", cel.StringType),

		// --- Morphology ---
		cel.Variable("lemma", cel.StringType),
		cel.Variable("upos", cel.StringType),
		cel.Variable("xpos", cel.StringType),
		cel.Variable("feats", cel.MapType(cel.StringType, cel.StringType)),

		// --- Syntax ---
		cel.Variable("head", cel.IntType),
		cel.Variable("deprel", cel.StringType),

		// --- Semantics ---
		cel.Variable("deepslot", cel.StringType),
		cel.Variable("semclass", cel.StringType),
		cel.Variable("misc", cel.StringType),
	)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// TokenActivation binds token t to the variables of NewTokenEnv.
func TokenActivation(t *corpus.Token) map[string]any {
	head := noHead
	if t.Head != nil {
		head = *t.Head
	}
	deprel := ""
	if t.Deprel != nil {
		deprel = *t.Deprel
	}
	feats := t.Feats
	if feats == nil {
		feats = map[string]string{}
	}

	return map[string]any{
		"id":       t.ID,
		"form":     t.Form,
		"lemma":    t.Lemma,
		"upos":     t.UPOS,
		"xpos":     t.XPOS,
		"feats":    feats,
		"head":     head,
		"deprel":   deprel,
		"deepslot": t.Deepslot,
		"semclass": t.Semclass,
		"misc":     t.Misc,
	}
}
