package insights

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/po-insights/backend-go/internal/store"
)

const formattingInstruction = "Please provide a helpful response based on the available data and calculations. " +
	"Format numbers with proper currency (₹) and use Indian number formatting."

// SystemPrompt describes the loaded data set and the assistant's role.
func SystemPrompt(counts store.Counts) string {
	var b strings.Builder

	b.WriteString("You are an AI assistant for an ERP (Enterprise Resource Planning) system. ")
	b.WriteString("You help users analyze and understand their business data including Purchase Orders, Landing Rates, and other business metrics.\n\n")

	b.WriteString("Available Data Context:\n")
	fmt.Fprintf(&b, "- Open Purchase Orders: %d records\n", counts.OpenPOs)
	fmt.Fprintf(&b, "- Completed Purchase Orders: %d records\n", counts.POs)
	fmt.Fprintf(&b, "- Landing Rates: %d records\n", counts.LandingRates)
	fmt.Fprintf(&b, "- Universal PO Data: %d records\n\n", counts.UniversalPO)

	b.WriteString(`Data Structure:
Purchase Orders contain:
- PO Number, Vendor, Ordered/Received Quantities, PO Amount
- SKU Code, SKU Description, Status, etc.

Landing Rates contain:
- SKU ID, Product Name, MRP, Category, Cases, Merchants, Landing Rate

Your Role:
1. Analyze the user's question and provide insights based on the available data
2. If asked for specific metrics, calculate and present them clearly
3. Identify trends, patterns, or anomalies in the data
4. Provide actionable business insights
5. If data is insufficient, suggest what additional information might be helpful
6. Always format numbers with proper currency (₹) and use Indian number formatting
7. Be concise but comprehensive in your responses
8. Use the pre-calculated data when available to provide accurate insights
9. Format responses using Markdown for better readability:
   - Use ## for main headings
   - Use ### for subheadings
   - Use **bold** for important metrics
   - Use bullet points (-) for lists
10. Structure responses with clear sections and proper spacing

Example capabilities:
- "Show me the top 5 vendors by PO value"
- "Which products have the highest landing rates?"
- "What's the total value of open purchase orders?"
- "Show me underperforming vendors"
- "What's the vendor performance summary?"
- "What are the best performing products?"
- "What's the product performance summary?"
- "Show me products in electronics category"`)

	return b.String()
}

// Prompt is the full text handed to a language model plus the analysis
// that was folded into it.
type Prompt struct {
	Text     string   `json:"prompt"`
	Analysis Analysis `json:"analysis"`
}

// BuildPrompt joins the system prompt, the question, the pre-computed
// analysis and the formatting instruction.
func (a *Assistant) BuildPrompt(question string) Prompt {
	analysis := a.Analyze(question)

	parts := []string{
		SystemPrompt(a.counts.Counts()),
		"User Question: " + question,
		analysis.Summary,
		formattingInstruction,
	}

	return Prompt{
		Text:     strings.Join(parts, "\n\n"),
		Analysis: analysis,
	}
}
