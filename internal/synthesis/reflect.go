package synthesis

import (
	"strings"

	"github.com/ShayCichocki/quorum/pkg/models"
)

// Reflection summarizes the quality of an in-flight decision process:
// who is participating, how deep the reasoning runs, and how diverse the
// approaches are, plus prompts for the facilitating agent.
type Reflection struct {
	Participation   string   `json:"participation_balance"`
	ReasoningDepth  string   `json:"reasoning_depth"`
	Diversity       string   `json:"diversity_of_approaches"`
	MetaQuestions   []string `json:"meta_questions"`
	Recommendations []string `json:"recommendations"`
}

// diversityIndicators are phrases that signal agents are exploring genuine
// alternatives rather than restating each other.
var diversityIndicators = []string{
	"alternative", "different", "another approach", "however", "instead",
}

// Reflect assesses a decision snapshot. It reads only; the engine owns all
// mutation.
func Reflect(d *models.Decision) Reflection {
	return Reflection{
		Participation:   assessParticipation(d.Proposals),
		ReasoningDepth:  assessReasoningDepth(d.Proposals),
		Diversity:       assessDiversity(d.Proposals),
		MetaQuestions:   metaQuestions(d),
		Recommendations: recommendations(d),
	}
}

func assessParticipation(proposals []models.Proposal) string {
	if len(proposals) == 0 {
		return "No participation yet"
	}
	seen := make(map[string]struct{}, len(proposals))
	for _, p := range proposals {
		seen[p.AgentName] = struct{}{}
	}
	switch {
	case len(seen) >= 3:
		return "Good participation balance"
	case len(seen) == 2:
		return "Moderate participation - could benefit from more voices"
	default:
		return "Limited participation - encourage more agents to contribute"
	}
}

func assessReasoningDepth(proposals []models.Proposal) string {
	if len(proposals) == 0 {
		return "No reasoning to assess yet"
	}
	total := 0
	for _, p := range proposals {
		total += len(p.Reasoning)
	}
	avg := total / len(proposals)
	switch {
	case avg > 100:
		return "Rich, detailed reasoning provided"
	case avg > 50:
		return "Adequate reasoning depth"
	default:
		return "Could benefit from more detailed reasoning"
	}
}

func assessDiversity(proposals []models.Proposal) string {
	if len(proposals) < 2 {
		return "Need more proposals to assess diversity"
	}
	var all strings.Builder
	for _, p := range proposals {
		all.WriteString(strings.ToLower(p.Proposal))
		all.WriteString(" ")
		all.WriteString(strings.ToLower(p.Reasoning))
		all.WriteString(" ")
	}
	text := all.String()
	score := 0
	for _, indicator := range diversityIndicators {
		if strings.Contains(text, indicator) {
			score++
		}
	}
	switch {
	case score >= 3:
		return "High diversity of approaches"
	case score >= 1:
		return "Moderate diversity - good range of options"
	default:
		return "Similar approaches - could benefit from more diverse thinking"
	}
}

func metaQuestions(d *models.Decision) []string {
	questions := []string{
		"What are we overlooking in the current discussion?",
		"Which long-term consequences have we not considered yet?",
		"How can the different perspectives reinforce each other?",
	}
	context := strings.ToLower(d.Context)
	if strings.Contains(context, "performance") {
		questions = append(questions, "Are we balancing performance and maintainability appropriately?")
	}
	if strings.Contains(context, "framework") {
		questions = append(questions, "Are we accounting for the team's learning curve?")
	}
	if len(d.Proposals) > 3 {
		questions = append(questions, "Are there shared assumptions underlying all proposals?")
	}
	return questions
}

func recommendations(d *models.Decision) []string {
	var recs []string
	if d.CurrentPhase == models.PhaseIdeaCollection {
		if len(d.Proposals) < 3 {
			recs = append(recs, "Consider encouraging more agents to contribute proposals")
		}
		recs = append(recs,
			"Ensure all proposals address the core decision criteria",
			"Look for opportunities to combine complementary approaches")
	}
	for _, p := range d.Proposals {
		if len(p.Reasoning) < 30 {
			recs = append(recs, "Encourage more detailed reasoning for all proposals")
			break
		}
	}
	return recs
}
