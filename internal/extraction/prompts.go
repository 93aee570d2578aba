package extraction

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.txt
var promptFS embed.FS

// Prompt names the three fixed questions asked about a resume.
type Prompt string

const (
	PromptSkills     Prompt = "skills"
	PromptEducation  Prompt = "education"
	PromptExperience Prompt = "experience"
)

// Prompts lists the questions in the order they are asked.
var Prompts = []Prompt{PromptSkills, PromptEducation, PromptExperience}

// Render returns the full prompt for the given flattened resume text.
func (p Prompt) Render(text string) (string, error) {
	data, err := promptFS.ReadFile("prompts/" + string(p) + ".txt")
	if err != nil {
		return "", fmt.Errorf("load %s prompt: %w", p, err)
	}
	return strings.TrimRight(string(data), "\n") + "\n" + text, nil
}
