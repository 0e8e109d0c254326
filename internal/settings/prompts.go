package settings

import (
	"fmt"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

func questionPrompts(questionColumn string, contextColumn *string, rows []map[string]any) ([]string, error) {
	columns := []string{questionColumn}
	if contextColumn != nil {
		columns = append(columns, *contextColumn)
	}
	if err := requireColumns(rows, columns); err != nil {
		return nil, err
	}

	prompts := make([]string, len(rows))
	for i, row := range rows {
		question, hasQuestion := cell(row, questionColumn)
		if contextColumn == nil {
			if hasQuestion {
				prompts[i] = question
			}
			continue
		}

		background, hasContext := cell(row, *contextColumn)
		if !hasQuestion && !hasContext {
			continue
		}
		prompts[i] = fmt.Sprintf("Context: %s\nQuestion: %s\nAnswer: ", background, question)
	}
	return prompts, nil
}

// templatePrompts fills {{column}} placeholders from each row. A row is
// skipped when every referenced column is empty.
func templatePrompts(template string, rows []map[string]any) ([]string, error) {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	columns := make([]string, 0, len(matches))
	for _, m := range matches {
		columns = append(columns, m[1])
	}
	if err := requireColumns(rows, columns); err != nil {
		return nil, err
	}

	prompts := make([]string, len(rows))
	for i, row := range rows {
		if len(columns) == 0 {
			prompts[i] = template
			continue
		}
		anyValue := false
		prompts[i] = placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
			name := placeholderPattern.FindStringSubmatch(token)[1]
			value, ok := cell(row, name)
			anyValue = anyValue || ok
			return value
		})
		if !anyValue {
			prompts[i] = ""
		}
	}
	return prompts, nil
}

// requireColumns fails when a referenced column appears in none of the rows.
func requireColumns(rows []map[string]any, columns []string) error {
	if len(rows) == 0 {
		return nil
	}
	for _, column := range columns {
		found := false
		for _, row := range rows {
			if _, ok := row[column]; ok {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("settings: column %q not found in input", column)
		}
	}
	return nil
}

// cell renders a row value as prompt text. Missing, nil and blank values are
// reported as absent.
func cell(row map[string]any, column string) (string, bool) {
	value, ok := row[column]
	if !ok || value == nil {
		return "", false
	}
	text := fmt.Sprint(value)
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}
