// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package experiments

import (
	"bytes"
	"strings"
	"text/template"
)

// maxPromptText bounds the document text included in one prompt.
const maxPromptText = 25000

// extractPromptTmpl is the per-paper structured-extraction prompt. It asks
// for every experiment that directly tests the variant, as a bare JSON
// object conforming to the experiment record schema.
// Per prd004-extraction R5.2.
var extractPromptTmpl = template.Must(template.New("extract").Parse(`You are helping evaluate ACMG criteria PS3 and BS3 for a genetic variant.

Variant of interest: {{.Label}}
Paper PMID: {{.PMID}}
Title: {{.Title}}

Below is the available text for this paper:
---
{{.Text}}
---

ACMG functional criteria:
- PS3: Well-established in vitro or in vivo functional studies supportive of a damaging effect on the gene or gene product.
- BS3: Well-established in vitro or in vivo functional studies show no damaging effect on protein function or splicing.

Task: identify all experiments that directly test the functional impact of THIS variant. For each experiment report:

- "assay_type": one of "enzymatic_activity", "splicing", "expression_stability", "protein_interaction", "other_in_vitro", "in_vivo", "other"
- "system": the experimental system (e.g. "HEK293 cells", "patient fibroblasts", "mouse model")
- "readout": what was measured (e.g. "catalytic activity", "splicing pattern")
- "direction": one of "damaging", "not_damaging", "inconclusive" (the effect on gene/protein function relative to wild type)
- "validated_assay": true if the study used a validated or standard assay for this readout
- "replicated": true if the result was replicated (biological replicates or an independent confirmatory assay)
- "magnitude": brief text summarizing fold-changes, p-values, replicate counts
- "summary": 1-2 sentences describing the experiment and its outcome

Respond with a JSON object and nothing else: {"experiments": [...]}. If no relevant experiments are found, respond {"experiments": []}.
{{if .Errors}}
Your previous response failed validation:
{{range .Errors}}- {{.}}
{{end}}Correct these problems and respond again with ONLY the JSON object.{{end}}`))

type promptData struct {
	Label  string
	PMID   string
	Title  string
	Text   string
	Errors []string
}

func renderPrompt(d promptData) (string, error) {
	if len(d.Text) > maxPromptText {
		d.Text = d.Text[:maxPromptText]
	}
	d.Text = strings.TrimSpace(d.Text)

	var buf bytes.Buffer
	if err := extractPromptTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
