package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

const summarySystemPrompt = "You are a policy analyst. You are given the results of a statistical " +
	"analysis of government appointment reappointment rates. Write a short executive summary " +
	"(3-5 sentences, plain prose, no headings) for a non-technical reader. Stick strictly to the " +
	"numbers provided; do not invent figures or speculate about causes."

// GenerateExecutiveSummary asks the LLM for a short narrative summary of
// the run. Optional: only called when an API key is configured, and a
// failure degrades to a report without the summary.
func GenerateExecutiveSummary(ctx context.Context, cfg Config, res AnalysisResult) (string, error) {
	model := cfg.LLMModel
	if model == "" {
		model = defaultAnthropicModel
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))
	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: summarySystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildSummaryPrompt(res))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("llm summary size=%d tokens_in=%d tokens_out=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens)
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

// buildSummaryPrompt is pure so the prompt content is testable offline.
func buildSummaryPrompt(res AnalysisResult) string {
	var out strings.Builder
	reg := res.Regression

	fmt.Fprintf(&out, "Analysis period: %d-%d\n", res.Config.StartYear, res.Config.EndYear)
	fmt.Fprintf(&out, "Appointment records: %d\n", res.RecordCount)
	fmt.Fprintf(&out, "Trend classification: %s\n", reg.Classification)
	fmt.Fprintf(&out, "Slope: %+.4f percentage points per year\n", reg.Slope*100)
	fmt.Fprintf(&out, "R-squared: %.4f, p-value: %.6g (significance threshold %g)\n",
		reg.RSquared, reg.PValue, res.Config.SignificanceThreshold)
	fmt.Fprintf(&out, "%.0f%% confidence interval for slope: %+.4f to %+.4f pp/year\n",
		reg.Confidence*100, reg.CILower*100, reg.CIUpper*100)

	out.WriteString("Annual reappointment rates:\n")
	for _, o := range res.Observations {
		fmt.Fprintf(&out, "  %d: %.2f%% (%d of %d)\n",
			o.Year, o.Proportion*100, o.ReappointmentCount, o.TotalCount)
	}

	if len(res.TopOrgs) > 0 {
		out.WriteString("Organizations with the most reappointments:\n")
		for i, org := range res.TopOrgs {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&out, "  %s: %d reappointments of %d appointments (%.1f%%)\n",
				org.Organization, org.ReappointmentCount, org.TotalCount, org.Rate*100)
		}
	}
	return out.String()
}
