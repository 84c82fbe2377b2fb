package recipe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	noInstructions = "No instructions available."
	minStepLength  = 10
)

var (
	timingLine = regexp.MustCompile(`(?i)^\s*(?:prep|cook|ready|total)(?:\s+time)?\s*[:›]`)
	stepMarker = regexp.MustCompile(`(?:^|\s)(\d{1,2})[.)]\s*`)
)

// FormatInstructions 移除時間資訊行並切成步驟；多於一步時回傳編號清單與步驟，否則回傳單一段落
func FormatInstructions(raw string) (string, []string) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if timingLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	text := strings.TrimSpace(strings.Join(kept, "\n"))
	if text == "" {
		return noInstructions, nil
	}

	var steps []string
	for _, line := range kept {
		for _, part := range splitMarkers(line) {
			for _, sentence := range splitSentences(part) {
				sentence = strings.TrimSpace(sentence)
				if utf8.RuneCountInString(sentence) < minStepLength {
					continue
				}
				steps = append(steps, sentence)
			}
		}
	}

	if len(steps) <= 1 {
		return text, nil
	}

	var b strings.Builder
	for i, step := range steps {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, step)
	}
	return b.String(), steps
}

// splitMarkers 以 "1." "2)" 等編號切開；行首的編號後面不能接數字，
// 行中的編號必須是下一個序號且後面接大寫字母
func splitMarkers(line string) []string {
	var parts []string
	start, next := 0, 1
	for _, loc := range stepMarker.FindAllStringSubmatchIndex(line, -1) {
		n, _ := strconv.Atoi(line[loc[2]:loc[3]])
		following, _ := utf8.DecodeRuneInString(line[loc[1]:])

		if strings.TrimSpace(line[start:loc[2]]) == "" && start == 0 {
			if unicode.IsDigit(following) {
				continue
			}
		} else if n != next || !unicode.IsUpper(following) {
			continue
		}

		parts = append(parts, line[start:loc[0]])
		start = loc[1]
		next = n + 1
	}
	return append(parts, line[start:])
}

// splitSentences 在 . ! ? 之後接空白與大寫字母處切開，標點留在前一句
func splitSentences(s string) []string {
	runes := []rune(s)
	var out []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		start = j
		i = j - 1
	}
	return append(out, string(runes[start:]))
}
