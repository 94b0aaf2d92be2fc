package prompt

import (
	"fmt"
	"strings"

	"discharge-care-be/pkg/store"
)

// Tool describes one capability offered to the model.
type Tool struct {
	Name        string
	Description string
}

// SystemBuilder assembles a responder system prompt from a role
// description, a tool list and behavioural guidelines.
type SystemBuilder struct {
	role       string
	duties     []string
	tools      []Tool
	guidelines []string
	closing    string
}

func NewSystemBuilder(role string) *SystemBuilder {
	return &SystemBuilder{role: role}
}

func (b *SystemBuilder) Duties(duties ...string) *SystemBuilder {
	b.duties = append(b.duties, duties...)
	return b
}

func (b *SystemBuilder) Tools(tools ...Tool) *SystemBuilder {
	b.tools = append(b.tools, tools...)
	return b
}

func (b *SystemBuilder) Guidelines(lines ...string) *SystemBuilder {
	b.guidelines = append(b.guidelines, lines...)
	return b
}

func (b *SystemBuilder) Closing(text string) *SystemBuilder {
	b.closing = text
	return b
}

func (b *SystemBuilder) Build() string {
	var prompt strings.Builder

	prompt.WriteString(b.role)
	prompt.WriteString("\n\n")

	b.writeList(&prompt, "Your responsibilities:", b.duties)
	b.writeTools(&prompt)
	b.writeList(&prompt, "Guidelines:", b.guidelines)

	if b.closing != "" {
		prompt.WriteString(b.closing)
		prompt.WriteString("\n")
	}
	return strings.TrimRight(prompt.String(), "\n")
}

func (b *SystemBuilder) writeList(prompt *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	prompt.WriteString(title)
	prompt.WriteString("\n")
	for i, item := range items {
		prompt.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
	prompt.WriteString("\n")
}

// writeTools documents the JSON action envelope the responder loop parses.
func (b *SystemBuilder) writeTools(prompt *strings.Builder) {
	if len(b.tools) == 0 {
		return
	}
	prompt.WriteString("<tools>\n")
	for _, t := range b.tools {
		prompt.WriteString(fmt.Sprintf("- %s: %s\n", t.Name, t.Description))
	}
	prompt.WriteString("</tools>\n\n")

	prompt.WriteString("<tool_protocol>\n")
	prompt.WriteString("To use a tool, reply with ONLY this JSON object and nothing else:\n")
	prompt.WriteString(`{"action": "<tool name>", "input": "<tool input>"}` + "\n")
	prompt.WriteString("The tool result will be sent back to you as an observation.\n")
	prompt.WriteString("When you are ready to answer the patient, reply with:\n")
	prompt.WriteString(`{"action": "final", "input": "<your reply>"}` + "\n")
	prompt.WriteString("A plain text reply is treated as your final answer.\n")
	prompt.WriteString("</tool_protocol>\n\n")
}

// Observation wraps a tool result for the next model call.
func Observation(tool, result string) string {
	return fmt.Sprintf("<observation tool=%q>\n%s\n</observation>", tool, strings.TrimSpace(result))
}

// PatientReport renders a discharge record the way the receptionist reads it back.
func PatientReport(p *store.PatientContext) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Patient Discharge Report Retrieved:\n\n")
	sb.WriteString(fmt.Sprintf("Patient Name: %s\n", p.PatientName))
	sb.WriteString(fmt.Sprintf("Discharge Date: %s\n", p.DischargeDate))
	sb.WriteString(fmt.Sprintf("Primary Diagnosis: %s\n", p.PrimaryDiagnosis))
	sb.WriteString("Medications:\n")
	for _, m := range p.Medications {
		sb.WriteString(fmt.Sprintf("  - %s\n", m))
	}
	sb.WriteString(fmt.Sprintf("Dietary Restrictions: %s\n", p.DietaryRestrictions))
	sb.WriteString(fmt.Sprintf("Follow-up: %s\n", p.FollowUp))
	sb.WriteString(fmt.Sprintf("Warning Signs to Watch For: %s\n", p.WarningSigns))
	sb.WriteString(fmt.Sprintf("Discharge Instructions: %s", p.DischargeInstructions))
	return sb.String()
}

// ClinicalQuery appends the patient context block to a clinical question.
func ClinicalQuery(query string, p *store.PatientContext) string {
	if p == nil {
		return query
	}
	dietary := p.DietaryRestrictions
	if dietary == "" {
		dietary = "None specified"
	}
	diagnosis := p.PrimaryDiagnosis
	if diagnosis == "" {
		diagnosis = "Unknown"
	}

	var sb strings.Builder
	sb.WriteString(query)
	sb.WriteString("\n\nPatient Context:\n")
	sb.WriteString(fmt.Sprintf("- Diagnosis: %s\n", diagnosis))
	sb.WriteString(fmt.Sprintf("- Medications: %s\n", strings.Join(p.Medications, ", ")))
	sb.WriteString(fmt.Sprintf("- Dietary Restrictions: %s", dietary))
	return sb.String()
}
