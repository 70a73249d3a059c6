package agent

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Quinntas/max/internal/lead"
)

// defaultQualifyingQuestions are asked when the dealership config does not
// override them.
var defaultQualifyingQuestions = []string{
	"What brings you in today - looking to buy or need service?",
	"Do you have a timeline in mind for your purchase?",
	"Will you be financing or paying cash?",
	"Do you have a vehicle to trade in?",
}

var toneDescriptions = map[string]string{
	"luxury":       "Sophisticated, exclusive, and attentive",
	"casual":       "Friendly, relaxed, and approachable",
	"friendly":     "Warm, enthusiastic, and helpful",
	"professional": "Professional, courteous, and knowledgeable",
}

var systemPromptTmpl = template.Must(template.New("system").Parse(`You are Max, a helpful AI assistant for {{.DealershipName}}{{if .Brand}}, a {{.Brand}} dealership{{end}}.

YOUR ROLE:
- Qualify incoming leads by understanding their needs
- Gather: intent, timeline, budget range, trade-in status, vehicle interest
- Book appointments when customers are ready
- Route to appropriate department (sales, service, finance)

TONE: {{.Tone}}

CRITICAL RULES - NEVER VIOLATE:
1. NEVER invent or quote specific prices, discounts, or OTD prices
2. NEVER guarantee vehicle availability or specific inventory
3. NEVER promise financing approval, rates, or terms
4. NEVER fabricate trade-in values
5. NEVER make delivery date guarantees

WHEN YOU DON'T KNOW:
- "I'd be happy to have our team get you exact pricing on that"
- "Let me connect you with our sales manager for the best available offer"
- "I can schedule a call to discuss your trade-in in detail"

QUALIFYING QUESTIONS TO ASK:
{{.Questions}}

ESCALATE TO HUMAN WHEN:
- Customer explicitly asks to speak with a person
- Customer expresses frustration or anger
- Customer asks for "best price" or negotiates
- You're uncertain about the correct response
- Complex situations (legal, complaints, disputes)

Keep responses concise and conversational - this is SMS/text messaging, not email.`))

// SystemPrompt renders the Max persona for a dealership. A nil dealership
// gets the generic persona.
func SystemPrompt(d *lead.Dealership) string {
	name := d.DisplayName()
	var brand string
	tone := toneDescriptions["professional"]
	questions := defaultQualifyingQuestions

	if d != nil {
		brand = d.Brand
		if d.Config != nil {
			if desc, ok := toneDescriptions[d.Config.Tone]; ok {
				tone = desc
			}
			if len(d.Config.QualifyingQuestions) > 0 {
				questions = d.Config.QualifyingQuestions
			}
		}
	}

	var qb strings.Builder
	for i, q := range questions {
		if i > 0 {
			qb.WriteString("\n")
		}
		qb.WriteString("- " + q)
	}

	var sb strings.Builder
	_ = systemPromptTmpl.Execute(&sb, struct {
		DealershipName, Brand, Tone, Questions string
	}{name, brand, tone, qb.String()})
	return sb.String()
}

// extractionPrompt asks for the structured lead-info JSON object. The field
// list mirrors lead.ExtractedLeadInfo exactly so the reply unmarshals
// directly into it.
func extractionPrompt(messageContent, conversationContext string) string {
	return fmt.Sprintf(`Analyze the customer message and extract structured information.

MESSAGE: %s

CONVERSATION CONTEXT:
%s

Return JSON with these fields:
{
	"intent": "SALES" | "SERVICE" | "TRADE_IN" | "UNKNOWN",
	"vehicleInterest": {
		"make": string,
		"model": string,
		"year": number,
		"trim": string
	},
	"timeline": "immediate" | "this_week" | "this_month" | "just_browsing" | "",
	"budgetMentioned": boolean,
	"budgetRange": { "min": number | null, "max": number | null } | null,
	"hasTradeIn": boolean,
	"tradeInVehicle": string,
	"wantsHuman": boolean,
	"sentimentScore": number,
	"confidence": number
}

Guidelines:
- sentimentScore: -1 (angry) to 1 (positive), 0 is neutral
- confidence: 0 to 1, be conservative if unsure
- Use "" or null for anything not stated
- Only extract what is explicitly stated or clearly implied`, messageContent, conversationContext)
}

// responsePrompt asks for the customer-facing draft.
func responsePrompt(formattedConversation, dealershipName string) string {
	return fmt.Sprintf(`Review the following conversation with a customer and generate a helpful response.

DEALERSHIP: %s

CONVERSATION:
%s

Remember:
- Keep it brief and conversational (this is SMS)
- Reference specific details from the conversation
- Do NOT invent prices, inventory details, or make guarantees
- If you don't have specific information, offer to find out
- Ask qualifying questions naturally

Generate a single, concise response.`, dealershipName, formattedConversation)
}
