package ai

import (
	"fmt"
	"strings"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
)

// PromptBuilder turns a transcript into the single prompt string sent to a Generator.
// The persona instruction is rendered once and reused for every exchange.
type PromptBuilder struct {
	speaker     string
	instruction string
}

// NewPromptBuilder renders the persona instruction for the given persona and profile.
func NewPromptBuilder(p persona.Persona, profile persona.Profile) *PromptBuilder {
	return &PromptBuilder{
		speaker:     speakerName(p),
		instruction: BuildSystemInstruction(p, profile),
	}
}

// Instruction returns the fixed persona instruction.
func (b *PromptBuilder) Instruction() string {
	return b.instruction
}

// Build renders the prompt for userText given the transcript that precedes it.
func (b *PromptBuilder) Build(prior []chat.Message, userText string) string {
	return BuildPrompt(b.instruction, b.speaker, prior, userText)
}

// BuildSystemInstruction creates the persona instruction grounded in the profile facts.
func BuildSystemInstruction(p persona.Persona, profile persona.Profile) string {
	var b strings.Builder

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = "helpful AI assistant"
	}
	fmt.Fprintf(&b, "You are %q, a %s for %s's professional portfolio website.\n", speakerName(p), title, profile.Name)
	fmt.Fprintf(&b, "Your goal is to guide users through %s's skills, projects, and potential.\n\n", firstName(profile.Name))

	fmt.Fprintf(&b, "Here is the context about %s:\n", firstName(profile.Name))
	b.WriteString("- Name: " + profile.Name)
	if about := describeAge(profile); about != "" {
		b.WriteString(" (" + about + ")")
	}
	b.WriteString("\n")
	writeFact(&b, "Education", profile.Education)
	writeFact(&b, "Role", profile.Role)
	writeFact(&b, "Location", profile.Location)
	writeFact(&b, "Bio", profile.Bio)

	skills := make([]string, 0, len(profile.Skills))
	for _, s := range profile.Skills {
		skills = append(skills, fmt.Sprintf("%s: %s", s.Category, strings.Join(s.Items, ", ")))
	}
	writeFact(&b, "Skills", strings.Join(skills, "; "))

	projects := make([]string, 0, len(profile.Projects))
	for _, p := range profile.Projects {
		projects = append(projects, fmt.Sprintf("%s (%s)", p.Title, p.Description))
	}
	writeFact(&b, "Projects", strings.Join(projects, "; "))

	certs := make([]string, 0, len(profile.Certifications))
	for _, c := range profile.Certifications {
		certs = append(certs, c.Name)
	}
	writeFact(&b, "Certifications", strings.Join(certs, ", "))

	contact := make([]string, 0, 3)
	if profile.Email != "" {
		contact = append(contact, fmt.Sprintf("Email (%s)", profile.Email))
	}
	if profile.LinkedIn != "" {
		contact = append(contact, fmt.Sprintf("LinkedIn (%s)", profile.LinkedIn))
	}
	if profile.GitHub != "" {
		contact = append(contact, fmt.Sprintf("GitHub (%s)", profile.GitHub))
	}
	writeFact(&b, "Contact", strings.Join(contact, ", "))

	if len(p.Guidelines) > 0 {
		b.WriteString("\nGuidelines:\n")
		for i, g := range p.Guidelines {
			fmt.Fprintf(&b, "%d. %s\n", i+1, g)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// BuildPrompt is a pure function of the instruction, the prior transcript and the new user text.
// Timestamps are dropped and the new user line appears exactly once, after the prior turns.
func BuildPrompt(instruction, speaker string, prior []chat.Message, userText string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nCurrent Conversation:\n")
	for _, msg := range prior {
		b.WriteString(label(msg.Role, speaker))
		b.WriteString(": ")
		b.WriteString(msg.Text)
		b.WriteString("\n")
	}
	b.WriteString("\nUser: ")
	b.WriteString(userText)
	b.WriteString("\n")
	b.WriteString(speaker)
	b.WriteString(":")
	return b.String()
}

func label(role chat.Role, speaker string) string {
	if role == chat.RoleUser {
		return "User"
	}
	return speaker
}

func speakerName(p persona.Persona) string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "Assistant"
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "the owner"
	}
	return fields[0]
}

func describeAge(p persona.Profile) string {
	switch {
	case p.Age > 0 && p.Gender != "":
		return fmt.Sprintf("%d-year-old %s", p.Age, p.Gender)
	case p.Age > 0:
		return fmt.Sprintf("%d years old", p.Age)
	default:
		return p.Gender
	}
}

func writeFact(b *strings.Builder, key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	b.WriteString("- ")
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
