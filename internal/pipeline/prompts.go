package pipeline

import (
	"fmt"
	"strings"
)

// ItemKeys is the expected key set for scouted item objects. The scout
// prompt and the JSON repair pass are both restricted to these keys.
var ItemKeys = []string{
	"title_guess", "brand", "model", "price_band", "why", "image_hint", "product_url",
}

// ScoutSystem is the persona prompt for the item-scouting call.
const ScoutSystem = "You are an e-commerce merchandiser. Based on the user's search keyword and " +
	"shopping intent, suggest 5-8 product candidates likely to sell well.\n" +
	"Output MUST be JSON only. No code fences, no explanations, no comments, no surrounding text.\n" +
	"Output shape: either a JSON array ([..]) or a {\"items\":[..]} object.\n" +
	"Each item must include {\"title_guess\",\"brand\",\"model\",\"price_band\",\"why\",\"image_hint\",\"product_url\"}.\n" +
	"Exclude discontinued, delisted, or scammy products. At most 1-2 variants of the same model."

// WriterSystem is the persona prompt for long-form document generation
// and for the compliance rewrite.
const WriterSystem = "Role: you are a lifestyle review blogger. Write in a natural first-person " +
	"experience tone, grounded and without exaggeration, following the structure of " +
	"well-ranking posts (summary up top, mid-article CTA, comparison table, link before the conclusion).\n" +
	"Hard rules:\n" +
	"- Output only the finished Markdown post. No meta labels (e.g. 'Title 1/2', 'Intro', 'TL;DR').\n" +
	"- The first line is '# <title>'; the second line is the one-line affiliate disclosure.\n" +
	"- Open with a 3-line summary (who / why / verdict) woven into the first one or two paragraphs.\n" +
	"- Body: 8-14 paragraphs with 3-5 H2 subheadings (e.g. 'What I liked', 'What fell short', 'Usage tips', 'Who this is for').\n" +
	"- Link placement (2-3 CTAs, no excessive repetition): (1) a short text link right after the opening summary, " +
	"(2) one below the comparison table, (3) a natural lead-in link at the start of the conclusion. " +
	"Vary the anchor phrasing each time. All links use the provided affiliate URL.\n" +
	"- Put 8-12 hashtags on a single final line (#keyword form).\n" +
	"- Stick to facts available from product pages, reviews, and official manufacturer documentation. " +
	"No invented figures, no medical or legal claims. Mention at least one alternative product.\n" +
	"- Length: at least 1,600 characters. Vary sentence length; swap in synonyms so it reads naturally.\n" +
	"- If a spec table is provided, include it verbatim in the upper third of the body. " +
	"If sources are provided, list 2-4 of them as reference links at the end."

// WriterInput carries the template fields for one document request.
// Zero-value fields fall back to sensible defaults per template.
type WriterInput struct {
	Keyword      string
	ProductName  string
	PriceBand    string
	AffiliateURL string

	// Review template
	Period       string
	Place        string
	Activity     string
	Measures     string
	Comparisons  string
	ReaderPoints string

	// Comparison / curation / howto / seasonal templates
	Category string
	Scenario string
	Theme    string
	Items    string
	Problem  string
	Stages   string
	Event    string
	Picks    string

	SpecTableMD string
	Sources     []string
}

// buildUserPrompt creates the user prompt for a template type:
// review (default), comparison, curation, howto, seasonal.
func buildUserPrompt(templateType string, in WriterInput) string {
	var b strings.Builder

	switch strings.ToLower(templateType) {
	case "comparison":
		b.WriteString("Category: comparison guide (2-4 products)\n")
		fmt.Fprintf(&b, "Category name: %s\n", defaultString(in.Category, in.Keyword))
		fmt.Fprintf(&b, "Candidates: %s\n", defaultString(in.Items, "[]"))
		fmt.Fprintf(&b, "Usage-scenario keywords: %s\n", defaultString(in.Scenario, "value / quiet / durability"))
		fmt.Fprintf(&b, "Link placeholder: %s\n", in.AffiliateURL)
		writeTableAndSources(&b, in)
		b.WriteString("Constraints: one table (6-8 key metrics, use the provided spec table verbatim if given), per-scenario recommendations, pros/cons summary, pre-purchase checkpoints.\n")

	case "curation":
		b.WriteString("Category: list/curation (5-9 items)\n")
		fmt.Fprintf(&b, "Theme: %s\n", defaultString(in.Theme, in.Keyword))
		fmt.Fprintf(&b, "Items: %s\n", defaultString(in.Items, "[]"))
		fmt.Fprintf(&b, "Link placeholder: %s\n", in.AffiliateURL)
		b.WriteString("Constraints: repeat an item card (who it suits / key points / usage scene / caveats). Close with a selection guide.\n")

	case "howto":
		b.WriteString("Category: problem solving (tutorial + recommendation)\n")
		fmt.Fprintf(&b, "Problem/symptom: %s\n", defaultString(in.Problem, in.Keyword))
		fmt.Fprintf(&b, "Steps: %s\n", defaultString(in.Stages, "present 3-5 steps"))
		fmt.Fprintf(&b, "Link placeholder: %s\n", in.AffiliateURL)
		b.WriteString("Constraints: per-step success criteria and fallback, 1-2 tools per step. Three lines on safety/warranty caveats.\n")

	case "seasonal":
		b.WriteString("Category: seasonal/sale special\n")
		fmt.Fprintf(&b, "Event/season: %s\n", defaultString(in.Event, in.Keyword))
		fmt.Fprintf(&b, "Top picks: %s\n", defaultString(in.Picks, "present 3"))
		fmt.Fprintf(&b, "Link placeholder: %s\n", in.AffiliateURL)
		b.WriteString("Constraints: check duration/volatility/refunds, 3 top picks per category (reason/risk), 3 price signals, prompt for alerts.\n")

	default: // review
		b.WriteString("Category: hands-on review (single product)\n")
		fmt.Fprintf(&b, "Product name: %s\n", in.ProductName)
		fmt.Fprintf(&b, "Core keyword: %s\n", in.Keyword)
		fmt.Fprintf(&b, "Price band: %s\n", in.PriceBand)
		fmt.Fprintf(&b, "Usage period/place/activity: %s, %s, %s\n",
			defaultString(in.Period, "2 weeks"),
			defaultString(in.Place, "at home"),
			defaultString(in.Activity, "daily use"))
		fmt.Fprintf(&b, "Measured aspects: %s\n", defaultString(in.Measures, "noise, battery life, other felt impressions"))
		fmt.Fprintf(&b, "Compared against: %s\n", defaultString(in.Comparisons, "1-2 same-class competitors"))
		fmt.Fprintf(&b, "Reader questions: %s\n", defaultString(in.ReaderPoints, "noise / storage / value"))
		fmt.Fprintf(&b, "Link placeholder: %s\n", in.AffiliateURL)
		writeTableAndSources(&b, in)
		b.WriteString("Constraints: balance pros and cons, include a one-line verdict in the opening, offer an alternative.\n")
	}

	b.WriteString("Output: the finished Markdown post. First line title, second line the disclosure, then body and hashtags.\n")
	return b.String()
}

func writeTableAndSources(b *strings.Builder, in WriterInput) {
	if in.SpecTableMD != "" {
		b.WriteString("\nProvided spec table:\n" + in.SpecTableMD + "\n")
	}
	if len(in.Sources) > 0 {
		b.WriteString("\nReference links:\n- " + strings.Join(in.Sources, "\n- ") + "\n")
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
