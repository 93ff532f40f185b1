package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"app/internal/model"
)

// stripCodeFences removes a surrounding markdown fence, handling both
// ```json ... ``` and plain ``` ... ```.
func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	firstNewline := strings.Index(t, "\n")
	if firstNewline == -1 {
		return t
	}
	withoutFirstFence := t[firstNewline+1:]
	lastFence := strings.LastIndex(withoutFirstFence, "```")
	if lastFence == -1 {
		return strings.TrimSpace(withoutFirstFence)
	}
	return strings.TrimSpace(withoutFirstFence[:lastFence])
}

// ExtractLikelyJSON recovers the most likely JSON object substring from
// free-form model text. Models tend to wrap their answer in prose or
// code fences despite instructions, so this is deliberately permissive.
// It never fails; whether the result actually parses is decided by
// ParseGeneratedCourse.
func ExtractLikelyJSON(text string) string {
	t := stripCodeFences(text)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start == -1 || end == -1 || end <= start {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(t[start : end+1])
}

// ParseGeneratedCourse parses model text into a schema-exact course or
// fails with ErrAIInvalidOutput. This is the trust boundary: nothing
// downstream may assume well-formed shape came from the generator.
func ParseGeneratedCourse(text string) (*model.GeneratedCourse, error) {
	var value any
	if err := json.Unmarshal([]byte(ExtractLikelyJSON(text)), &value); err != nil {
		return nil, ErrAIInvalidOutput
	}
	return validateGeneratedCourse(value)
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}

func clampInt(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// asFiniteNumber coerces a numeric or string-encoded numeric value.
func asFiniteNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func validateGeneratedCourse(value any) (*model.GeneratedCourse, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, ErrAIInvalidOutput
	}

	courseName := asString(obj["courseName"])
	if courseName == "" {
		return nil, ErrAIInvalidOutput
	}

	rawModules, ok := obj["modules"].([]any)
	if !ok {
		return nil, ErrAIInvalidOutput
	}

	modules := make([]model.GeneratedModule, 0, len(rawModules))
	var infoCount, testCount int
	for _, raw := range rawModules {
		mm, ok := raw.(map[string]any)
		if !ok {
			return nil, ErrAIInvalidOutput
		}
		typ := asString(mm["type"])
		content, _ := mm["content"].(map[string]any)

		switch typ {
		case model.ModuleTypeInfo:
			markdown := asString(content["markdown"])
			if markdown == "" {
				return nil, ErrAIInvalidOutput
			}
			modules = append(modules, model.GeneratedModule{
				Type: model.ModuleTypeInfo,
				Info: &model.InfoContent{Markdown: markdown},
			})
			infoCount++

		case model.ModuleTypeTest:
			question := asString(content["question"])
			rawOptions, ok := content["options"].([]any)
			if question == "" || !ok {
				return nil, ErrAIInvalidOutput
			}
			options := make([]string, 0, len(rawOptions))
			for _, o := range rawOptions {
				if s, ok := o.(string); ok {
					options = append(options, s)
				}
			}
			num, ok := asFiniteNumber(content["correctIndex"])
			if len(options) < 2 || !ok {
				return nil, ErrAIInvalidOutput
			}
			// Off-by-one model output is tolerated: the index is clamped
			// into range rather than rejecting an otherwise-good module.
			correctIndex := clampInt(int(num), 0, len(options)-1)
			modules = append(modules, model.GeneratedModule{
				Type: model.ModuleTypeTest,
				Test: &model.TestContent{
					Question:     question,
					Options:      options,
					CorrectIndex: correctIndex,
				},
			})
			testCount++

		default:
			// One bad module invalidates the entire course.
			return nil, ErrAIInvalidOutput
		}
	}

	if len(modules) == 0 || infoCount == 0 || testCount == 0 {
		return nil, ErrAIInvalidOutput
	}
	return &model.GeneratedCourse{CourseName: courseName, Modules: modules}, nil
}
