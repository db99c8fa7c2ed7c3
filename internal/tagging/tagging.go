// Package tagging suggests document tags from OCR text by fuzzy keyword
// matching against a fixed tag table.
package tagging

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum similarity for a fuzzy keyword match.
const DefaultThreshold = 0.7

// Other is the tag returned when nothing matches.
const Other = "other"

type tagConfig struct {
	id       string
	keywords []string
}

var tagConfigs = []tagConfig{
	{"identity_card", []string{"居民身份证", "身份证", "公民身份", "ID Card", "Identity Card"}},
	{"driver_license", []string{"驾驶证", "机动车驾驶证", "Driver License", "Driving License"}},
	{"passport", []string{"护照", "Passport", "PASSPORT", "中华人民共和国护照"}},
	{"business_license", []string{"营业执照", "工商营业执照", "Business License", "统一社会信用代码"}},
	{"residence_permit", []string{"居住证", "暂住证", "Residence Permit"}},
	{"student_id", []string{"学生证", "Student ID", "学生卡"}},
	{"employee_id", []string{"工作证", "员工证", "Employee ID", "职工证"}},
	{"bank_card", []string{"银行卡", "储蓄卡", "信用卡", "Bank Card", "Credit Card", "Debit Card"}},
	{"social_security_card", []string{"社保卡", "社会保障卡", "Social Security Card"}},
	{"medical_insurance_card", []string{"医保卡", "医疗保险卡", "Medical Insurance Card"}},
	{"contract", []string{"合同", "协议", "Contract", "Agreement", "合作协议", "服务合同"}},
	{"report", []string{"报告", "分析报告", "Report", "调研报告", "工作报告", "研究报告"}},
	{"notice", []string{"公告", "通知", "Notice", "声明", "公示"}},
	{"resume", []string{"简历", "履历", "Resume", "CV", "个人简历"}},
	{"transcript", []string{"成绩单", "Transcript", "学习成绩", "考试成绩"}},
	{Other, nil},
}

const punctuation = ".,;:!?\"'()[]{}|\\/_+=-*&^%$#@~`"

// Normalize lowercases text and strips whitespace, ASCII punctuation and
// zero-width characters.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
		case strings.ContainsRune(punctuation, r):
		case r >= 0x200B && r <= 0x200F, r == 0xFEFF:
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// containsSequence reports whether all runes of keyword appear in text in
// order, with anything in between.
func containsSequence(text, keyword []rune) bool {
	if len(keyword) == 0 {
		return true
	}
	if len(keyword) > len(text) {
		return false
	}
	k := 0
	for _, r := range text {
		if r == keyword[k] {
			k++
			if k == len(keyword) {
				return true
			}
		}
	}
	return false
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	prev := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}
	cur := make([]int, len(a)+1)
	for i := 1; i <= len(b); i++ {
		cur[0] = i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

// Similarity returns 1 - distance/maxLen, in [0, 1].
func Similarity(a, b string) float64 {
	return similarity([]rune(a), []rune(b))
}

func similarity(a, b []rune) float64 {
	if string(a) == string(b) {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return 1 - float64(editDistance(a, b))/float64(max(len(a), len(b)))
}

// MatchKeywords returns the keywords found in text, tolerating OCR noise.
func MatchKeywords(text string, keywords []string, threshold float64) []string {
	norm := []rune(Normalize(text))
	var matches []string

	for _, keyword := range keywords {
		kw := []rune(Normalize(keyword))
		if len(kw) == 0 {
			continue
		}
		if strings.Contains(string(norm), string(kw)) || containsSequence(norm, kw) {
			matches = append(matches, keyword)
			continue
		}
		// short keywords only match exactly
		if len(kw) < 2 {
			continue
		}
		if len(kw) >= 4 && similarity(norm, kw) >= threshold {
			matches = append(matches, keyword)
			continue
		}
		for i := 0; i+len(kw) <= len(norm); i++ {
			if similarity(norm[i:i+len(kw)], kw) >= threshold {
				matches = append(matches, keyword)
				break
			}
		}
	}
	return matches
}

// GenerateTags returns tag ids ordered by number of matched keywords. Tags
// with equal scores keep table order. When nothing matches, defaults is
// returned; a nil defaults means []string{"other"}.
func GenerateTags(text string, defaults []string) []string {
	if defaults == nil {
		defaults = []string{Other}
	}
	if strings.TrimSpace(text) == "" {
		return defaults
	}

	type score struct {
		id    string
		count int
	}
	var scores []score
	for _, tc := range tagConfigs {
		if len(tc.keywords) == 0 {
			continue
		}
		if n := len(MatchKeywords(text, tc.keywords, DefaultThreshold)); n > 0 {
			scores = append(scores, score{tc.id, n})
		}
	}
	if len(scores) == 0 {
		return defaults
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].count > scores[j].count })
	tags := make([]string, len(scores))
	for i, s := range scores {
		tags[i] = s.id
	}
	return tags
}

// AllTags returns every tag id in table order.
func AllTags() []string {
	ids := make([]string, len(tagConfigs))
	for i, tc := range tagConfigs {
		ids[i] = tc.id
	}
	return ids
}
