package analysis

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/good-yellow-bee/cyberguard/internal/metrics"
	"github.com/good-yellow-bee/cyberguard/internal/models"
)

// Heuristic is a local, rule based Analyzer used when no model is configured.
type Heuristic struct{}

var _ Analyzer = Heuristic{}

var commonPasswords = map[string]struct{}{
	"123456": {}, "password": {}, "123456789": {}, "12345678": {}, "qwerty": {},
	"abc123": {}, "111111": {}, "letmein": {}, "admin": {}, "welcome": {},
	"iloveyou": {}, "monkey": {}, "dragon": {}, "password1": {}, "qwerty123": {},
}

// AnalyzePassword scores by length, character variety and known weak values.
func (Heuristic) AnalyzePassword(_ context.Context, password string) models.PasswordStrengthResult {
	defer countHeuristic(KindPassword)

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	length := len([]rune(password))

	score := min(length*4, 40)
	suggestions := []string{}
	if lower {
		score += 10
	}
	if upper {
		score += 10
	} else {
		suggestions = append(suggestions, "Add uppercase letters.")
	}
	if digit {
		score += 10
	} else {
		suggestions = append(suggestions, "Add numbers.")
	}
	if symbol {
		score += 15
	} else {
		suggestions = append(suggestions, "Add special characters such as !, # or %.")
	}
	switch {
	case length >= 16:
		score += 15
	case length >= 12:
		score += 10
	default:
		suggestions = append(suggestions, "Use at least 12 characters.")
	}

	explanation := fmt.Sprintf("%d characters using %d of 4 character classes.", length, classes(lower, upper, digit, symbol))

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		score = min(score, 5)
		explanation = "This is one of the most commonly used passwords and would be guessed immediately."
		suggestions = append(suggestions, "Avoid common passwords and dictionary words.")
	} else if length > 1 && strings.Count(password, string([]rune(password)[0])) == length {
		score = min(score, 10)
		explanation = "The password repeats a single character."
		suggestions = append(suggestions, "Avoid repeated characters.")
	}

	return models.PasswordStrengthResult{
		Score:       max(0, min(score, 100)),
		Explanation: explanation,
		Suggestions: suggestions,
	}
}

func classes(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

var suspiciousTLDs = map[string]struct{}{
	"zip": {}, "mov": {}, "xyz": {}, "top": {}, "tk": {}, "ml": {}, "ga": {},
	"cf": {}, "gq": {}, "click": {}, "country": {}, "kim": {}, "work": {},
}

var phishingKeywords = []string{"login", "verify", "secure", "account", "update", "bank", "password", "wallet", "signin"}

// AnalyzeURL flags common phishing and malware delivery traits.
func (Heuristic) AnalyzeURL(_ context.Context, raw string) models.AnalysisResult {
	defer countHeuristic(KindURL)

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		if err == nil && !strings.Contains(raw, "://") {
			u, err = url.Parse("http://" + strings.TrimSpace(raw))
		}
		if err != nil || u.Hostname() == "" {
			return FallbackURL
		}
	}

	host := strings.ToLower(u.Hostname())
	points := 0
	var findings []string

	if u.Scheme != "https" {
		points++
		findings = append(findings, "the connection is not encrypted")
	}
	if u.User != nil {
		points += 3
		findings = append(findings, "credentials are embedded before the host name")
	}
	if net.ParseIP(host) != nil {
		points += 2
		findings = append(findings, "the host is a raw IP address")
	}
	if strings.Contains(host, "xn--") {
		points += 2
		findings = append(findings, "the host uses punycode, which can disguise look-alike domains")
	}
	labels := strings.Split(host, ".")
	if _, ok := suspiciousTLDs[labels[len(labels)-1]]; ok {
		points += 2
		findings = append(findings, "the top-level domain is frequently abused")
	}
	if len(labels) > 4 {
		points++
		findings = append(findings, "the host has an unusual number of subdomains")
	}
	hits := 0
	lowered := strings.ToLower(u.String())
	for _, kw := range phishingKeywords {
		if strings.Contains(lowered, kw) {
			hits++
		}
	}
	if hits > 0 {
		points += min(hits, 2)
		findings = append(findings, "the address contains words common in credential phishing")
	}

	level := riskFromPoints(points)
	summary := "No common phishing or malware indicators were found."
	if len(findings) > 0 {
		summary = "Indicators found: " + strings.Join(findings, "; ") + "."
	}
	recommendations := "Verify the sender before entering any credentials."
	if level.IsSevere() {
		recommendations = "Do not visit this URL. Report it to your security team."
	}
	return models.AnalysisResult{RiskLevel: level, Summary: summary, Recommendations: recommendations}
}

func riskFromPoints(points int) models.RiskLevel {
	switch {
	case points >= 5:
		return models.RiskCritical
	case points >= 3:
		return models.RiskHigh
	case points >= 1:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

var extensionRisk = map[string]models.RiskLevel{
	".exe": models.RiskCritical, ".scr": models.RiskCritical, ".bat": models.RiskCritical,
	".cmd": models.RiskCritical, ".com": models.RiskCritical, ".pif": models.RiskCritical,
	".vbs": models.RiskCritical, ".js": models.RiskCritical, ".jse": models.RiskCritical,
	".wsf": models.RiskCritical, ".ps1": models.RiskCritical, ".msi": models.RiskCritical,
	".hta": models.RiskCritical, ".jar": models.RiskCritical,

	".docm": models.RiskHigh, ".xlsm": models.RiskHigh, ".pptm": models.RiskHigh,
	".dll": models.RiskHigh, ".iso": models.RiskHigh, ".img": models.RiskHigh,
	".lnk": models.RiskHigh, ".reg": models.RiskHigh, ".sh": models.RiskHigh,

	".zip": models.RiskMedium, ".rar": models.RiskMedium, ".7z": models.RiskMedium,
	".pdf": models.RiskMedium, ".doc": models.RiskMedium, ".xls": models.RiskMedium,
	".html": models.RiskMedium, ".htm": models.RiskMedium,

	".txt": models.RiskLow, ".csv": models.RiskLow, ".png": models.RiskLow,
	".jpg": models.RiskLow, ".jpeg": models.RiskLow, ".gif": models.RiskLow,
	".mp3": models.RiskLow, ".mp4": models.RiskLow, ".md": models.RiskLow,
}

// AnalyzeFile rates a file by its extension.
func (Heuristic) AnalyzeFile(_ context.Context, filename string) models.AnalysisResult {
	defer countHeuristic(KindFile)

	name := strings.ToLower(strings.TrimSpace(filepath.Base(filename)))
	if name == "" || name == "." {
		return FallbackFile
	}

	ext := filepath.Ext(name)
	inner := filepath.Ext(strings.TrimSuffix(name, ext))
	level, known := extensionRisk[ext]

	switch {
	case !known:
		return models.AnalysisResult{
			RiskLevel: models.RiskMedium,
			Summary:   fmt.Sprintf("Files of type %q are not recognized. Treat unknown types with caution.", ext),
		}
	case level.IsSevere() && inner != "" && extensionRisk[inner] != "" && !extensionRisk[inner].IsSevere():
		return models.AnalysisResult{
			RiskLevel: models.RiskCritical,
			Summary:   fmt.Sprintf("The name uses a double extension (%s%s) to disguise an executable as a document.", inner, ext),
		}
	}

	var summary string
	switch level {
	case models.RiskCritical:
		summary = fmt.Sprintf("%s files run code directly and are a common malware delivery format.", ext)
	case models.RiskHigh:
		summary = fmt.Sprintf("%s files can carry macros, scripts or mount points that execute code.", ext)
	case models.RiskMedium:
		summary = fmt.Sprintf("%s files can embed active content or other files. Scan before opening.", ext)
	default:
		summary = fmt.Sprintf("%s files are passive data and rarely carry malware.", ext)
	}
	return models.AnalysisResult{RiskLevel: level, Summary: summary}
}

var knownHashes = map[string]models.AnalysisResult{
	"ed01ebfbc9eb5bbea545af4d01bf5f1071661840480439c6e5babe8e080e41aa": {
		RiskLevel: models.RiskCritical,
		Summary:   "Known malware hash associated with WannaCry ransomware.",
	},
	"44d88612fea8a8f36de82e1278abb02f": {
		RiskLevel: models.RiskHigh,
		Summary:   "EICAR antivirus test file. Harmless, but flagged by every scanner.",
	},
}

// AnalyzeFileHash validates the hash format and looks it up in a small
// local reputation table.
func (Heuristic) AnalyzeFileHash(_ context.Context, hash string) models.AnalysisResult {
	defer countHeuristic(KindHash)

	h := strings.ToLower(strings.TrimSpace(hash))
	algo := hashAlgorithm(h)
	if algo == "" {
		return models.AnalysisResult{
			RiskLevel: models.RiskUnknown,
			Summary:   "The value is not a valid MD5, SHA-1 or SHA-256 hex digest.",
		}
	}
	if r, ok := knownHashes[h]; ok {
		return r
	}
	return models.AnalysisResult{
		RiskLevel: models.RiskLow,
		Summary:   fmt.Sprintf("No match for this %s hash in the local threat database.", algo),
	}
}

func hashAlgorithm(h string) string {
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return ""
		}
	}
	switch len(h) {
	case 32:
		return "MD5"
	case 40:
		return "SHA-1"
	case 64:
		return "SHA-256"
	default:
		return ""
	}
}

func countHeuristic(kind Kind) {
	metrics.AnalysisRequestsTotal.WithLabelValues(string(kind), "ok").Inc()
}
