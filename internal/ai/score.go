package ai

import (
	"context"
	"fmt"

	"go-jobfit-automation/internal/apperr"
)

// FitTemplate asks for a 0-100 fit score and a short justification.
var FitTemplate = PromptTemplate{
	System: "You are an AI that rates job suitability based on a résumé.",
	User: `Compare the following job description with the provided résumé.
- Provide a match score from 0 to 100, where 100 is a perfect match.
- Then, give a short analysis explaining why the score was given.

Job Description:
{job_description}

Résumé:
{resume}

Respond in the following format:
SCORE: <numeric_score>
ANALYSIS: <justification>`,
}

type Result struct {
	Score    int
	Analysis string
	Raw      string
}

// FitScorer scores a job description against a résumé with a Completer.
type FitScorer struct {
	completer Completer
	template  PromptTemplate
}

func NewFitScorer(c Completer) *FitScorer {
	return &FitScorer{completer: c, template: FitTemplate}
}

// WithTemplate returns a copy of the scorer using another prompt. The template
// must use the {job_description} and {resume} placeholders.
func (s *FitScorer) WithTemplate(t PromptTemplate) *FitScorer {
	return &FitScorer{completer: s.completer, template: t}
}

// Score returns an EXTERNAL error when the completion call fails and a PARSE
// error when the response carries no usable score.
func (s *FitScorer) Score(ctx context.Context, description, resume string) (Result, error) {
	messages, err := s.template.Build(map[string]string{
		"job_description": description,
		"resume":          resume,
	})
	if err != nil {
		return Result{}, apperr.Config("invalid scoring prompt", err)
	}

	text, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return Result{}, apperr.External("completion failed", err)
	}

	fields, err := ParseResponse(text)
	if err != nil {
		return Result{Raw: text}, apperr.Parse("unreadable completion", err)
	}
	score, analysis, err := ParseScore(fields)
	if err != nil {
		return Result{Raw: text}, apperr.Parse(fmt.Sprintf("no usable score in %q", preview(text)), err)
	}
	return Result{Score: score, Analysis: analysis, Raw: text}, nil
}

func preview(text string) string {
	r := []rune(text)
	if len(r) > 80 {
		return string(r[:80]) + "…"
	}
	return text
}
