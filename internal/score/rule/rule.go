package rule

import (
	"cobald/internal/corpus"
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule is a token filter: a CEL predicate over the gold token that decides whether
// the token takes part in a category score.
// The program is compiled by Init and run by Eval.
type Rule struct {
	// When: CEL expression over the token variables of NewTokenEnv.
	// Must return a boolean value.
	When string
	// program: compiled CEL program used to execute the condition.
	program cel.Program
}

// Init compiles the When expression using the provided env environment.
// Syntax errors, type errors and non-boolean expressions are reported.
func (r *Rule) Init(env *cel.Env) error {
	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("filter '%s' must return bool, got %s", r.When, checked.OutputType())
	}

	var err error
	r.program, err = env.Program(checked)
	if err != nil {
		return err
	}

	return nil
}

// Eval runs the compiled predicate on token t.
// An uninitialized rule or a runtime error is returned as error; the caller decides
// whether to count the token anyway.
func (r *Rule) Eval(t *corpus.Token) (bool, error) {
	if r.program == nil {
		return false, errors.New("rule is not initialized")
	}
	result, _, err := r.program.Eval(TokenActivation(t))
	if err != nil {
		return false, err
	}
	matched, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("filter '%s' returned %T", r.When, result.Value())
	}
	return matched, nil
}

// New compiles expression into a ready rule.
func New(expression string) (*Rule, error) {
	env, err := NewTokenEnv()
	if err != nil {
		return nil, err
	}
	r := &Rule{When: expression}
	if err := r.Init(env); err != nil {
		return nil, err
	}
	return r, nil
}
