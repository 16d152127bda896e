package advisor

// Template is a curated prompt in the gallery.
type Template struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Rating      string   `json:"rating"`
	Tokens      int      `json:"tokens"`
	Savings     int      `json:"savings"`
	Models      []string `json:"models"`
	Prompt      string   `json:"prompt"`
}

var templates = []Template{
	{
		ID: "pro-1", Title: "Legacy Code Refactor", Category: "Development", Rating: "B", Tokens: 3200, Savings: 12,
		Description: "Analyzes legacy COBOL/Fortran snippets and rewrites them in modern Rust with memory safety annotations.",
		Models:      []string{"gemini-3-pro"},
		Prompt:      "Analyze legacy COBOL/Fortran code. Rewrite in Rust with memory safety annotations. Preserve logic, add error handling.",
	},
	{
		ID: "pro-2", Title: "Legal Contract Audit", Category: "Analysis", Rating: "B", Tokens: 4500, Savings: 15,
		Description: "Scans NDA documents for specific clauses related to IP assignment and liability caps, flagging risks.",
		Models:      []string{"gemini-3-pro"},
		Prompt:      "Audit NDA for IP assignment clauses, liability caps, confidentiality scope. Flag risks, summarize findings.",
	},
	{
		ID: "pro-3", Title: "Quantum Physics Explainer", Category: "Research", Rating: "B", Tokens: 2100, Savings: 18,
		Description: "Generates university-level explanations of quantum entanglement with mathematical proofs.",
		Models:      []string{"gemini-3-pro"},
		Prompt:      "Explain quantum entanglement at university level. Include mathematical proofs, Bell inequalities, experimental verification.",
	},
	{
		ID: "flash3-1", Title: "React Component Generator", Category: "Development", Rating: "A", Tokens: 650, Savings: 45,
		Description: "Creates functional React components with Tailwind classes based on visual descriptions.",
		Models:      []string{"gemini-3-flash"},
		Prompt:      "Create React functional component with Tailwind CSS. Include props, TypeScript types, responsive design.",
	},
	{
		ID: "flash3-2", Title: "Invoice Data Extractor", Category: "Extraction", Rating: "A+", Tokens: 400, Savings: 68,
		Description: "Extracts line items, dates, and tax amounts from messy OCR text into clean JSON.",
		Models:      []string{"gemini-3-flash"},
		Prompt:      "Extract invoice data: line items, dates, tax amounts, totals. Output clean JSON. Handle OCR errors.",
	},
	{
		ID: "flash3-3", Title: "Technical Blog Outliner", Category: "Drafting", Rating: "A+", Tokens: 300, Savings: 55,
		Description: "Drafts comprehensive outlines for technical articles including SEO keywords and headings.",
		Models:      []string{"gemini-3-flash"},
		Prompt:      "Create technical blog outline: title, headings, subheadings, SEO keywords, meta description.",
	},
	{
		ID: "flash2-1", Title: "Regex Generator", Category: "Development", Rating: "A+", Tokens: 150, Savings: 72,
		Description: "Constructs complex Regular Expressions for email validation and phone number formatting.",
		Models:      []string{"gemini-2.5-flash"},
		Prompt:      "Generate regex for email validation and phone number formatting. Include test cases.",
	},
	{
		ID: "flash2-2", Title: "Sentiment Analyzer", Category: "Analysis", Rating: "A+", Tokens: 120, Savings: 80,
		Description: "Classifies customer support tickets into Positive, Neutral, or Negative buckets.",
		Models:      []string{"gemini-2.5-flash"},
		Prompt:      "Classify support ticket sentiment: Positive, Neutral, or Negative. Provide confidence score.",
	},
	{
		ID: "flash2-3", Title: "Viral Tweet Drafter", Category: "Drafting", Rating: "A+", Tokens: 200, Savings: 65,
		Description: "Generates 5 variations of a product launch announcement optimized for engagement.",
		Models:      []string{"gemini-2.5-flash"},
		Prompt:      "Generate 5 tweet variations for product launch. Optimize for engagement, include hashtags, emojis.",
	},
	{
		ID: "mix-1", Title: "SQL Query Optimizer", Category: "Development", Rating: "A", Tokens: 340, Savings: 71,
		Description: "Rewrites inefficient subqueries into optimized JOINs for Postgres.",
		Models:      []string{"gemini-3-flash", "gemini-3-pro"},
		Prompt:      "Optimize SQL query: convert subqueries to JOINs, add indexes, improve performance for Postgres.",
	},
	{
		ID: "mix-2", Title: "Resume Parser", Category: "Extraction", Rating: "A", Tokens: 900, Savings: 50,
		Description: "Converts PDF resume text into structured candidate profiles.",
		Models:      []string{"gemini-3-flash"},
		Prompt:      "Parse resume PDF. Extract: name, contact, education, experience, skills. Output structured JSON.",
	},
	{
		ID: "mix-3", Title: "Competitor Analysis Synth", Category: "Research", Rating: "B", Tokens: 5200, Savings: 22,
		Description: "Summarizes 10 different competitor landing pages into a strategy matrix.",
		Models:      []string{"gemini-3-pro"},
		Prompt:      "Analyze 10 competitor landing pages. Create strategy matrix: features, pricing, messaging, positioning.",
	},
	{
		ID: "mix-4", Title: "JSON Logic Validator", Category: "Logic", Rating: "A+", Tokens: 90, Savings: 74,
		Description: "Ensures JSON output strictly adheres to a provided schema without hallucination.",
		Models:      []string{"gemini-3-flash"},
		Prompt:      "Validate JSON against schema. Check types, required fields, constraints. Return validation errors.",
	},
}

// Templates returns a copy of the gallery, optionally filtered by category.
func Templates(category string) []Template {
	out := make([]Template, 0, len(templates))
	for _, t := range templates {
		if category != "" && t.Category != category {
			continue
		}
		t.Models = append([]string(nil), t.Models...)
		out = append(out, t)
	}
	return out
}
