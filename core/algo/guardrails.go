package algo

import (
	"fmt"

	"github.com/huangsam/fairprice/schema"
)

// EvaluateGuardrails checks a candidate price against floor, ceiling, margin
// and competitor gap in that order. The first violated rule wins and its
// suggested correction becomes the resolved price; later rules are not checked.
func EvaluateGuardrails(price float64, p schema.GuardrailParams) (schema.GuardrailDecision, error) {
	if err := validateGuardrailParams(price, p); err != nil {
		return schema.GuardrailDecision{}, err
	}
	return evaluate(price, p), nil
}

// EnforceGuardrails runs up to maxPasses evaluations, feeding each correction
// back in until a pass accepts it, the price stops changing or passes run out.
// With maxPasses of 1 it is equivalent to EvaluateGuardrails. The decision
// keeps the acceptance and reason of the first pass.
func EnforceGuardrails(price float64, p schema.GuardrailParams, maxPasses int) (schema.GuardrailDecision, error) {
	if maxPasses < 1 {
		return schema.GuardrailDecision{}, fmt.Errorf("%w: guardrail passes must be at least 1, got %d", schema.ErrConfiguration, maxPasses)
	}
	if err := validateGuardrailParams(price, p); err != nil {
		return schema.GuardrailDecision{}, err
	}

	first := evaluate(price, p)
	if first.Accepted {
		return first, nil
	}
	current := first.Price
	passes := 1
	for passes < maxPasses {
		next := evaluate(current, p)
		passes++
		if next.Accepted || next.Price == current {
			break
		}
		current = next.Price
	}
	first.Price = current
	first.Passes = passes
	return first, nil
}

func validateGuardrailParams(price float64, p schema.GuardrailParams) error {
	if p.MarginThreshold >= 1 {
		return fmt.Errorf("%w: margin threshold must be below 1, got %v", schema.ErrConfiguration, p.MarginThreshold)
	}
	if !finite(price) || !finite(p.Cost) || !finite(p.MarginThreshold) || !finite(p.MinCompetitorGap) {
		return fmt.Errorf("%w: price, cost, margin threshold and competitor gap must be finite", schema.ErrInvalidInput)
	}
	for _, opt := range []struct {
		name  string
		value *float64
	}{{"floor", p.Floor}, {"ceiling", p.Ceiling}, {"competitor price", p.CompetitorPrice}} {
		if opt.value != nil && !finite(*opt.value) {
			return fmt.Errorf("%w: %s is %v", schema.ErrInvalidInput, opt.name, *opt.value)
		}
	}
	return nil
}

func evaluate(price float64, p schema.GuardrailParams) schema.GuardrailDecision {
	reject := func(resolved float64, reason schema.GuardrailReason) schema.GuardrailDecision {
		return schema.GuardrailDecision{Price: resolved, Reason: reason, Passes: 1}
	}

	if p.Floor != nil && price < *p.Floor {
		return reject(*p.Floor, schema.ReasonBelowFloor)
	}
	if p.Ceiling != nil && price > *p.Ceiling {
		return reject(*p.Ceiling, schema.ReasonAboveCeiling)
	}

	margin := -1.0 // no defined margin at a non-positive price
	if price > 0 {
		margin = (price - p.Cost) / price
	}
	if margin < p.MarginThreshold {
		return reject(p.Cost/(1-p.MarginThreshold), schema.ReasonMargin)
	}

	if p.CompetitorPrice != nil && price-*p.CompetitorPrice < p.MinCompetitorGap {
		return reject(*p.CompetitorPrice+p.MinCompetitorGap, schema.ReasonCompetitor)
	}
	return schema.GuardrailDecision{Accepted: true, Price: price, Reason: schema.ReasonOK, Passes: 1}
}
