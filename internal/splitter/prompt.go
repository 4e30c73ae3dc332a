package splitter

import (
	"fmt"
	"strings"

	"fitlab/internal/knowledge"
)

// SystemPrompt pins the model into the scheduling-coach role.
const SystemPrompt = "You are an expert fitness coach helping someone with a fragmented schedule."

// BuildPrompt renders the workout, the available blocks, the packing rules
// and the literal JSON schema the extractor expects.
func BuildPrompt(workout knowledge.Workout, blocks []int, scenario string) string {
	exerciseLines := make([]string, 0, len(workout.Exercises))
	for _, ex := range workout.Exercises {
		exerciseLines = append(exerciseLines, fmt.Sprintf("- %s: %d min, Category: %s, Priority: %s",
			ex.Name, ex.Duration, ex.Category, ex.Priority))
	}

	blockLabels := make([]string, 0, len(blocks))
	for _, b := range blocks {
		blockLabels = append(blockLabels, fmt.Sprintf("%d min", b))
	}

	var sb strings.Builder
	if scenario != "" {
		sb.WriteString(fmt.Sprintf("Context: %s\n\n", scenario))
	}

	sb.WriteString("**Full Workout to Split:**\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", workout.Name))
	sb.WriteString(fmt.Sprintf("Total Duration: %d minutes\n", workout.TotalDuration))

	sb.WriteString("\n**Exercises:**\n")
	sb.WriteString(strings.Join(exerciseLines, "\n"))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("\n**Available Time Blocks:** %s\n", strings.Join(blockLabels, ", ")))

	sb.WriteString(`
**Your Task:**
Intelligently split this workout into the available time blocks following these rules:

1. **Prioritize high-priority exercises** - include them first
2. **Group by movement patterns** - don't split similar exercises awkwardly
3. **Maintain workout logic** - warm-up first, cool-down last when possible
4. **Balance intensity** - don't cram all hard exercises in one block
5. **Maximize coverage** - use as much of the available time as possible
6. **Suggest timing** - indicate best time of day for each segment (e.g., "Morning - 7am", "Lunch break", "Evening")

Return a JSON response with this structure:
{
  "segments": [
    {
      "block_number": 1,
      "duration": <actual minutes used>,
      "focus": "<primary focus like 'Lower body strength' or 'Mobility + Core'>",
      "exercises": [
        {
          "name": "<exercise name>",
          "duration": <minutes>,
          "category": "<category>",
          "priority": "<priority>",
          "sets": "<if applicable>",
          "reps": "<if applicable>"
        }
      ],
      "completion_time": "<suggested time like 'Morning - 7am' or 'Lunch break'>",
      "rationale": "<brief explanation of why these exercises go together>"
    }
  ],
  "coverage_percentage": <percentage of original workout covered>,
  "ai_insights": "<2-3 sentence summary of the split strategy and any trade-offs made>"
}

Provide ONLY valid JSON, no additional text.`)

	return sb.String()
}
