// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"bytes"
	"text/template"
)

// classifyPromptTmpl is the per-paper classification prompt. It asks for a
// binary functional-evidence judgment with a categorical confidence and a
// short rationale, as a bare JSON object. Per prd003-relevance R5.2.
var classifyPromptTmpl = template.Must(template.New("classify").Parse(`You are assisting with ACMG variant curation for the PS3/BS3 functional criteria.

Variant of interest: {{.Label}}

Paper:
PMID: {{.PMID}}
Title: {{.Title}}
{{if .Text}}Text: {{.Text}}{{end}}

Question: Does this paper include experimental functional data (in vitro or in vivo) specifically on this variant (or clearly equivalent notation)?

Exclude:
- Purely in silico prediction
- Only genotype/phenotype correlations
- Reviews without new experiments
- Papers that only mention the variant without testing it

Respond with a JSON object and nothing else, with keys:
- "is_functional": true or false
- "confidence": one of "high", "moderate", "low"
- "justification": 1-3 sentences
`))

// clarifySuffix is appended to the prompt on the single re-prompt after an
// unparsable response. Per prd003-relevance R5.4.
const clarifySuffix = `

Your previous response could not be parsed. Respond with ONLY the JSON object described above: no prose, no markdown fences.`

type promptData struct {
	Label string
	PMID  string
	Title string
	Text  string
}

func renderPrompt(d promptData, clarify bool) (string, error) {
	var buf bytes.Buffer
	if err := classifyPromptTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	if clarify {
		buf.WriteString(clarifySuffix)
	}
	return buf.String(), nil
}
