package analysis

import "fmt"

// Schema is the subset of the OpenAPI schema object accepted as a
// structured response schema.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
}

const (
	typeObject  = "OBJECT"
	typeString  = "STRING"
	typeInteger = "INTEGER"
	typeArray   = "ARRAY"
)

const riskLevelDescription = "Low, Medium, High, or Critical"

var (
	urlSchema = &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"riskLevel":       {Type: typeString, Description: riskLevelDescription},
			"summary":         {Type: typeString},
			"recommendations": {Type: typeString},
		},
	}

	passwordSchema = &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"score":       {Type: typeInteger},
			"explanation": {Type: typeString},
			"suggestions": {Type: typeArray, Items: &Schema{Type: typeString}},
		},
	}

	fileSchema = &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"riskLevel": {Type: typeString, Description: riskLevelDescription},
			"summary":   {Type: typeString},
		},
	}

	hashSchema = &Schema{
		Type: typeObject,
		Properties: map[string]*Schema{
			"riskLevel": {Type: typeString, Description: riskLevelDescription + `. "Low" for clean hashes.`},
			"summary": {Type: typeString, Description: "Summary of the hash's reputation, e.g., " +
				"'Known malware hash associated with WannaCry ransomware' or 'Clean hash for kernel32.dll'."},
		},
	}
)

func urlPrompt(url string) string {
	return fmt.Sprintf("Analyze the following URL for potential security risks like phishing, malware, or scams. "+
		"Provide a risk level (Low, Medium, High, Critical), a summary of potential threats, and safety recommendations. URL: %q", url)
}

func passwordPrompt(password string) string {
	return fmt.Sprintf("Analyze the strength of the following password and provide a score from 0 to 100, "+
		"a brief explanation, and an array of suggestions for improvement. "+
		"Do not echo the password back in your response. Password: %q", password)
}

func filePrompt(filename string) string {
	return fmt.Sprintf("Based on the filename %q, what are the potential security risks associated with this type of file? "+
		"Provide a risk level (Low, Medium, High, Critical) and a brief summary.", filename)
}

func hashPrompt(hash string) string {
	return fmt.Sprintf("Analyze the following file hash for security risks, simulating a check against a threat intelligence database. "+
		"Is this hash associated with known malware (e.g., WannaCry, Cobalt Strike), suspicious activity, or is it a clean/known-good file? "+
		"Provide a risk level (Low, Medium, High, Critical), and a brief summary of what the hash is associated with. "+
		"For a critical risk, name the malware if known. Hash: %q", hash)
}
