// Package report renders assessments for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spigell/skillgap/internal/pipeline"
	"github.com/spigell/skillgap/internal/skills"
	"github.com/spigell/skillgap/internal/utils"
)

const (
	barWidth      = 20
	maxRawPreview = 80
)

// JSON writes the assessment as indented JSON.
func JSON(w io.Writer, a *pipeline.Assessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// DumpToTmpFile writes the JSON form to a new temporary file and returns its path.
func DumpToTmpFile(a *pipeline.Assessment) (string, error) {
	file, err := os.CreateTemp("", "skillgap_*.json")
	if err != nil {
		return "", err
	}
	return dump(file, a)
}

type namedWriteCloser interface {
	io.WriteCloser
	Name() string
}

func dump(file namedWriteCloser, a *pipeline.Assessment) (string, error) {
	if err := JSON(file, a); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", file.Name(), err)
	}
	return file.Name(), nil
}

// Text renders the terminal report.
func Text(a *pipeline.Assessment) string {
	var b strings.Builder

	b.WriteString(header("Confidence"))
	b.WriteString("\n")
	b.WriteString(scoreBar(a.Score, barWidth))
	if a.OracleScore != nil && *a.OracleScore != a.Score {
		b.WriteString(styleDim.Render(fmt.Sprintf("  (formula %d, oracle %d)", a.FormulaScore, *a.OracleScore)))
	}
	b.WriteString("\n\n")

	b.WriteString(header("Skills"))
	b.WriteString("\n")
	writeSkillLine(&b, "Required", a.RequiredSkills)
	if a.Comparison != nil {
		writeSkillLine(&b, "Matched", a.Comparison.Matched)
		if a.Comparison.Similar.Len() > 0 {
			writeSkillLine(&b, "Similar", a.Comparison.Similar)
		}
		writeSkillLine(&b, "Missing", a.Comparison.Missing)
	}
	b.WriteString("\n")

	if a.Comparison != nil && a.Comparison.Missing.Len() > 0 {
		b.WriteString(header("Learning difficulty"))
		b.WriteString("\n")
		for _, name := range a.Comparison.Missing.Names() {
			tier := a.Difficulty[name]
			fmt.Fprintf(&b, "  %-24s %s\n", name, tierStyle(tier).Render(tier.String()))
		}
		b.WriteString("\n")
	}

	b.WriteString(header("Stages"))
	b.WriteString("\n")
	for _, r := range a.Stages {
		fmt.Fprintf(&b, "  %-24s %s %s\n",
			r.Stage,
			sourceStyle(r.Source).Render(fmt.Sprintf("%-9s", r.Source)),
			styleDim.Render(r.Duration.Round(time.Millisecond).String()),
		)
		if r.Reason != "" {
			fmt.Fprintf(&b, "    %s\n", styleDim.Render(utils.TruncateForLog(utils.OneLine(r.Reason), maxRawPreview)))
		}
	}

	return box(strings.TrimRight(b.String(), "\n")) + "\n" + styleDim.Render("run "+a.RunID) + "\n"
}

func writeSkillLine(b *strings.Builder, label string, s *skills.Set) {
	value := "none"
	if s.Len() > 0 {
		value = strings.Join(s.Strings(), ", ")
	}
	fmt.Fprintf(b, "  %s %s\n", styleBold.Render(fmt.Sprintf("%-9s", label+":")), value)
}
