// Package prompt assembles the system prompt and user briefs sent to the model.
// Every function here is pure: identical inputs give byte-identical output.
package prompt

import (
	"sort"
	"strings"
)

// Generation modes.
const (
	ModeCode      = "code"
	ModeAzureFunc = "azure-func"
	ModePipeline  = "pipeline"
	ModeFabric    = "fabric"
	ModeAPI       = "api"
	ModeDeploy    = "deploy"
)

const systemBase = `You write single-file, runnable code. Output ONLY code (no markdown fences, no prose).
- Include all imports.
- Python/PySpark: __main__ guard + argparse.
- SQL: executable statements; include DDL if needed.
- Header comment: purpose, deps, run steps, pip installs if any.
- Prefer stdlib; justify new deps in header.
- Read large inputs from disk via provided PATHS; do not inline big files.
`

var modeHints = map[string]string{
	ModeCode:      "",
	ModeAzureFunc: "Target Azure Functions (Python 3.11). Produce function.py, function.json content inline; explain in header how to place files in a Functions project. HTTP trigger default.",
	ModePipeline:  "Produce Azure Pipelines YAML (CI/CD) for building/testing/deploying a Python project. Include stages: build, test, package, deploy (parameterized).",
	ModeFabric:    "Write code suitable for Microsoft Fabric ingestion/transform: pandas/pyarrow parquet, UTC datetimes, SQL for reporting. Avoid heavy deps.",
	ModeAPI:       "Write a clean API client module (requests/httpx) with retries, rate-limit handling, and typed responses. No secrets in code; read from env.",
	ModeDeploy:    "Produce minimal deploy script (az CLI or bicep/yaml) with parameterization. Idempotent where possible.",
}

// languageExt maps target languages to artifact extensions.
var languageExt = map[string]string{
	"py":      "py",
	"pyspark": "py",
	"sql":     "sql",
}

// Modes lists the recognized generation modes, sorted.
func Modes() []string {
	return sortedKeys(modeHints)
}

// Languages lists the supported target languages, sorted.
func Languages() []string {
	return sortedKeys(languageExt)
}

// Extension returns the artifact extension for lang.
func Extension(lang string) (string, bool) {
	ext, ok := languageExt[lang]
	return ext, ok
}

// BuildSystemPrompt returns the base instructions followed by the hint for mode.
// Unknown modes get an empty hint.
func BuildSystemPrompt(mode string) string {
	return systemBase + "\n" + modeHints[mode]
}

// BuildUserBrief renders the generation request.
func BuildUserBrief(requirement, lang, pinnedHead, pathHints string) string {
	var b strings.Builder
	b.WriteString("TASK:\n")
	b.WriteString(requirement)
	b.WriteString("\n\nTARGET_LANG: ")
	b.WriteString(lang)
	b.WriteString(`

CONSTRAINTS:
- Single, self-contained file.
- Fabric/Synapse-friendly outputs if data work (UTC, parquet via pyarrow).
- Read from disk using PATHS if needed (do not inline big JSON/CSV).
- Return ONLY code.

PINNED_SPEC (head if present):
`)
	b.WriteString(orNone(pinnedHead))
	b.WriteString("\n\nAVAILABLE_PATHS (non-authoritative hints for the code to read at runtime):\n")
	b.WriteString(orNone(pathHints))
	return b.String()
}

// BuildFixBrief renders a request to repair the last generated file.
func BuildFixBrief(errText, pinnedHead string) string {
	return "Errors to fix; return FULL corrected file.\n\n" + errText +
		"\n\n(Pinned spec follows)\n" + pinnedHead
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
