package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/veristat-labs/veristat/pkg/report"
)

// Insight explains one failed check in business terms.
type Insight struct {
	Issue              string   `json:"issue"`
	PossibleCauses     []string `json:"possible_causes"`
	ImpactLevel        string   `json:"impact_level"`
	BusinessImpact     string   `json:"business_impact"`
	RecommendedActions []string `json:"recommended_actions"`
}

// Fix proposes a remediation for one failed check.
type Fix struct {
	FixApproach           string   `json:"fix_approach"`
	Rationale             string   `json:"rationale"`
	Implementation        string   `json:"implementation"`
	Confidence            string   `json:"confidence"`
	AlternativeApproaches []string `json:"alternative_approaches"`
}

const insightSystem = `You are a data quality analyst. Given one failed
data validation check, respond with a JSON object with keys: issue
(one-sentence explanation), possible_causes (array of strings),
impact_level (low, medium or high), business_impact (string), and
recommended_actions (array of strings). Respond with JSON only.`

const fixSystem = `You are a data engineer. Given one failed data
validation check, respond with a JSON object with keys: fix_approach
(short title), rationale, implementation (concrete steps or code),
confidence (low, medium or high), and alternative_approaches (array of
strings). Respond with JSON only.`

// Insights explains every failed check in the report, keyed by check
// name. A failure on one check does not stop the others; the first
// error is returned alongside whatever was generated.
func (c *Client) Insights(ctx context.Context, r *report.Report) (map[string]Insight, error) {
	insights := make(map[string]Insight, len(r.FailedChecks))
	var firstErr error
	for _, fc := range r.FailedChecks {
		var insight Insight
		if err := c.generate(ctx, insightSystem, fc, &insight); err != nil {
			c.logger.Warn("insight generation failed",
				slog.String("check", fc.CheckName),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = fmt.Errorf("insight for %s: %w", fc.CheckName, err)
			}
			continue
		}
		insights[fc.CheckName] = insight
	}
	return insights, firstErr
}

// Fixes proposes a remediation for every failed check in the report,
// keyed by check name.
func (c *Client) Fixes(ctx context.Context, r *report.Report) (map[string]Fix, error) {
	fixes := make(map[string]Fix, len(r.FailedChecks))
	var firstErr error
	for _, fc := range r.FailedChecks {
		var fix Fix
		if err := c.generate(ctx, fixSystem, fc, &fix); err != nil {
			c.logger.Warn("fix generation failed",
				slog.String("check", fc.CheckName),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = fmt.Errorf("fix for %s: %w", fc.CheckName, err)
			}
			continue
		}
		fixes[fc.CheckName] = fix
	}
	return fixes, firstErr
}

// generate prompts with one failure record and decodes the JSON reply.
func (c *Client) generate(ctx context.Context, system string, fc report.FailedCheck, out any) error {
	prompt, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("encode failure record: %w", err)
	}

	reply, err := c.complete(ctx, system, string(prompt))
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(reply), out); err != nil {
		return fmt.Errorf("parse model reply: %w", err)
	}
	return nil
}
