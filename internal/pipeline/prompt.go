package pipeline

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spigell/skillgap/internal/skills"
)

var (
	//go:embed prompts/requirements.md
	requirementsTemplate string
	//go:embed prompts/comparison.md
	comparisonTemplate string
	//go:embed prompts/difficulty.md
	difficultyTemplate string
	//go:embed prompts/confidence.md
	confidenceTemplate string
)

// Role contexts sent alongside every stage prompt.
const (
	requirementsPersona = "Role: Requirement Analyzer.\n" +
		"Goal: analyze non-technical client input and extract the technical skills required for the task.\n" +
		"Background: specializes in interpreting non-technical project descriptions and identifying the tools, libraries or frameworks needed to implement them. Always answers with a list literal of quoted strings."
	comparisonPersona = "Role: Skill Comparer.\n" +
		"Goal: compare developer skills with the skills a client requires.\n" +
		"Background: identifies direct matches, then uses common industry knowledge to detect closely related or complementary skills (Flask and Django are both Python web frameworks). Always answers with a dictionary literal."
	difficultyPersona = "Role: Skill Learning Difficulty Assessor.\n" +
		"Goal: assess how easily a developer with the given skills could learn each missing skill.\n" +
		"Background: an expert in developer education who weighs overlap, prerequisites and domain similarity. Always answers with a dictionary literal."
	confidencePersona = "Role: Confidence Scorer.\n" +
		"Goal: score the confidence that the developer can fulfil the client requirements.\n" +
		"Background: an expert at evaluating project fit from skill overlap and learning curves. Answers with a single integer percentage and nothing else."
)

func render(template string, values map[string]string) string {
	out := template
	for key, value := range values {
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return strings.TrimSpace(out)
}

// listLiteral renders names the way the oracle is asked to answer.
func listLiteral(s *skills.Set) string {
	data, err := json.Marshal(s.Strings())
	if err != nil {
		return "[]"
	}
	return string(data)
}

// tierLiteral renders the assessment restricted to the missing skills, in
// missing-set order.
func tierLiteral(a skills.Assessment, missing *skills.Set) string {
	parts := make([]string, 0, missing.Len())
	for _, name := range missing.Names() {
		tier, ok := a[name]
		if !ok {
			continue
		}
		key, _ := json.Marshal(string(name))
		parts = append(parts, fmt.Sprintf("%s: %q", key, tier.String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func requirementsPrompt(description string) string {
	return render(requirementsTemplate, map[string]string{
		"DESCRIPTION": description,
	})
}

func comparisonPrompt(mode ComparisonMode, roster, required *skills.Set) string {
	rules := "- Return 'matched_skills': skills that are exactly the same OR closely related to a developer skill.\n" +
		"- Return 'missing_skills': skills with no exact or closely related developer skill."
	format := "{'matched_skills': [...], 'missing_skills': [...]}"
	if mode == ComparisonThreeBucket {
		rules = "- Return 'matched_skills': skills the developer has exactly.\n" +
			"- Return 'similar_skills': skills closely related to a developer skill but not identical.\n" +
			"- Return 'missing_skills': skills with no exact or closely related developer skill."
		format = "{'matched_skills': [...], 'similar_skills': [...], 'missing_skills': [...]}"
	}

	return render(comparisonTemplate, map[string]string{
		"DEVELOPER_SKILLS": listLiteral(roster),
		"REQUIRED_SKILLS":  listLiteral(required),
		"BUCKET_RULES":     rules,
		"OUTPUT_FORMAT":    format,
	})
}

func difficultyPrompt(roster, missing *skills.Set) string {
	return render(difficultyTemplate, map[string]string{
		"DEVELOPER_SKILLS": listLiteral(roster),
		"MISSING_SKILLS":   listLiteral(missing),
	})
}

func confidencePrompt(policy skills.ScoringPolicy, in skills.ScoreInput) string {
	rules := "2. Add the percentage of required skills whose difficulty is 'Easy': easy / total * 100.\n" +
		"3. Subtract the percentage of required skills whose difficulty is 'Difficult': difficult / total * 100.\n" +
		"4. Round the result and keep it between 0 and 100."
	if policy == skills.ScoringPoints {
		rules = "2. Add 10 points for each 'Easy' missing skill.\n" +
			"3. Subtract 10 points for each 'Difficult' missing skill.\n" +
			"4. Round the result and keep it between 0 and 100."
	}

	return render(confidenceTemplate, map[string]string{
		"MATCHED_COUNT": fmt.Sprint(in.Possessed),
		"TOTAL_COUNT":   fmt.Sprint(in.Total()),
		"DIFFICULTY":    tierLiteral(in.Tiers, in.Missing),
		"SCORING_RULES": rules,
	})
}
