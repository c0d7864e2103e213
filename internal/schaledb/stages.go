package schaledb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// categoryLabels maps upstream stage category codes to the human-readable
// labels used when composing display names. Unknown codes pass through
// verbatim.
var categoryLabels = map[string]string{
	"campaign":      "Main Story",
	"bounty":        "Bounty",
	"commission":    "Commission",
	"schooldungeon": "School Dungeon",
	"weekdungeon":   "Weekly Dungeon",
}

// areaSynonyms maps an area filter term to the category substrings it
// accepts. The dataset defaults to Chinese, so the Chinese area terms map to
// the same English category codes the upstream records carry.
var areaSynonyms = map[string][]string{
	"main":      {"campaign", "main", "story"},
	"story":     {"campaign", "main", "story"},
	"event":     {"event", "special"},
	"bounty":    {"bounty", "commission"},
	"raid":      {"totalassault", "raid", "ta"},
	"hard":      {"hard", "difficult"},
	"mission":   {"mission", "quest"},
	"challenge": {"challenge"},
	"exercise":  {"exercise", "practice"},
	"主线":        {"campaign", "main", "story"},
	"活动":        {"event", "special"},
	"悬赏":        {"bounty", "commission"},
	"总力战":       {"totalassault", "raid", "ta"},
	"困难":        {"hard", "difficult"},
	"任务":        {"mission", "quest"},
	"挑战":        {"challenge"},
	"演习":        {"exercise", "practice"},
}

// difficultyLevels maps a named difficulty to the stage-level band it
// covers, in both English and Chinese.
var difficultyLevels = map[string][2]int{
	"easy":    {1, 5},
	"normal":  {6, 15},
	"hard":    {16, 25},
	"extreme": {26, 35},
	"简单":      {1, 5},
	"普通":      {6, 15},
	"困难":      {16, 25},
	"极难":      {26, 35},
}

// difficultyCategories maps a difficulty term to category substrings that
// imply it.
var difficultyCategories = map[string][]string{
	"easy":      {"easy", "normal", "tutorial", "beginner"},
	"normal":    {"normal", "campaign", "story", "main"},
	"hard":      {"hard", "difficult", "challenge"},
	"extreme":   {"extreme", "hell", "nightmare", "insane", "expert"},
	"hell":      {"extreme", "hell", "nightmare", "insane"},
	"nightmare": {"extreme", "hell", "nightmare", "insane"},
	"expert":    {"extreme", "hell", "nightmare", "insane", "expert"},
	"challenge": {"hard", "difficult", "challenge"},
	"story":     {"normal", "campaign", "story", "main"},
	"main":      {"normal", "campaign", "story", "main"},
	"tutorial":  {"easy", "normal", "tutorial", "beginner"},
	"beginner":  {"easy", "normal", "tutorial", "beginner"},
	"简单":        {"easy", "normal", "tutorial", "beginner"},
	"普通":        {"normal", "campaign", "story", "main"},
	"困难":        {"hard", "difficult", "challenge"},
	"极难":        {"extreme", "hell", "nightmare", "insane", "expert"},
}

// terrainCN localizes the upstream terrain codes for search. Unknown codes
// pass through.
var terrainCN = map[string]string{
	"Street":  "街道",
	"Outdoor": "室外",
	"Indoor":  "室内",
}

// DeriveStageFields reconstructs the chapter and stage-within-chapter
// numbers from a stage's numeric identifier, for stages whose records omit
// them. Identifiers with at least four digits encode the chapter in the
// first two digits (which must be non-zero) and the stage number in the
// third and fourth; shorter identifiers with at least two digits encode the
// chapter in the first digit and the stage number in the remainder.
// Anything unparsable yields an empty string — absence, never an error.
func DeriveStageFields(id int) (chapter, stageNumber string) {
	idStr := strconv.Itoa(id)

	if len(idStr) >= 4 {
		if n, err := strconv.Atoi(idStr[:2]); err == nil && n > 0 {
			chapter = strconv.Itoa(n)
		}
		if n, err := strconv.Atoi(idStr[2:4]); err == nil {
			stageNumber = strconv.Itoa(n)
		}
	} else if len(idStr) >= 2 {
		if n, err := strconv.Atoi(idStr[:1]); err == nil && n > 0 {
			chapter = strconv.Itoa(n)
		}
		if n, err := strconv.Atoi(idStr[1:]); err == nil {
			stageNumber = strconv.Itoa(n)
		}
	}
	return chapter, stageNumber
}

// ChapterFromID derives the chapter number an identifier belongs to for
// chapter filtering: five- and six-digit identifiers carry the chapter in
// their first two digits (30101 and 301001 are both chapter 30), four-digit
// identifiers in their first digit (1001 is chapter 1). Other lengths have
// no derivable chapter.
//
// This is intentionally a different rule from [DeriveStageFields]: the
// display derivation and the filter matured against different id shapes
// upstream, and unifying them changes observable filter results.
func ChapterFromID(id int) (int, bool) {
	idStr := strconv.Itoa(id)
	switch len(idStr) {
	case 4:
		n, err := strconv.Atoi(idStr[:1])
		return n, err == nil
	case 5, 6:
		n, err := strconv.Atoi(idStr[:2])
		return n, err == nil
	}
	return 0, false
}

// GenerateStageName composes a human-readable display name for a stage
// record that lacks one: "{category label} {stage}", plus "-{level}" when a
// level is present and " ({terrain})" when terrain is present. Records with
// no category fall back to "Stage {stage}" or "Stage {id}". The function
// never fails past this boundary — a record missing everything still gets
// the id fallback.
func GenerateStageName(stage Record) string {
	category, hasCategory := stage.Str("Category")
	stageNum, hasStage := stage.Int("Stage")

	if hasCategory {
		label := category
		if l, known := categoryLabels[strings.ToLower(category)]; known {
			label = l
		}
		name := label
		if hasStage {
			name = fmt.Sprintf("%s %d", label, stageNum)
		}
		if level, hasLevel := stage.Int("Level"); hasLevel {
			name += fmt.Sprintf("-%d", level)
		}
		if terrain, hasTerrain := stage.Str("Terrain"); hasTerrain {
			name += fmt.Sprintf(" (%s)", terrain)
		}
		return name
	}

	if hasStage {
		return fmt.Sprintf("Stage %d", stageNum)
	}
	if id, hasID := stage.Int("Id"); hasID {
		return fmt.Sprintf("Stage %d", id)
	}
	return "Stage Unknown"
}

// SearchableStageNumber concatenates every representation of a stage's
// identity — explicit stage-number string, numeric stage field, the
// "{chapter}-{stage}" composite, and the raw id — so the relevance search
// matches whichever form a user types.
func SearchableStageNumber(stage Record) string {
	var parts []string

	if s, present := stage.Str("StageNumber"); present && s != "" {
		parts = append(parts, s)
	}
	num, hasNum := stage.Int("Stage")
	if hasNum {
		parts = append(parts, strconv.Itoa(num))
	}
	if chapter, present := stage.Str("Chapter"); present && chapter != "" && hasNum {
		parts = append(parts, fmt.Sprintf("%s-%d", chapter, num))
	}
	if id, present := stage.Int("Id"); present {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, " ")
}

// StageQuery selects and filters stages. All filters are optional and
// AND-composed; Search runs after filtering.
type StageQuery struct {
	Language   string
	Search     string
	Area       string // category filter, synonym-expanded
	Chapter    string // chapter number or chapter phrase
	Difficulty string // numeric level, named band, or category term
	Limit      int
	Detailed   bool
}

// Stages returns stage records matching the query, with derived metadata
// (generated display name, chapter, stage number, searchable identity)
// attached.
func (c *Client) Stages(ctx context.Context, q StageQuery) ([]Record, error) {
	stages, err := c.FetchCollection(ctx, q.Language, "stages")
	if err != nil {
		return nil, err
	}

	if q.Area != "" {
		stages = filterRecords(stages, func(s Record) bool { return stageMatchesArea(s, q.Area) })
	}
	if q.Chapter != "" {
		stages = filterRecords(stages, func(s Record) bool { return stageMatchesChapter(s, q.Chapter) })
	}
	if q.Difficulty != "" {
		stages = filterRecords(stages, func(s Record) bool { return stageMatchesDifficulty(s, q.Difficulty) })
	}

	// Attach derived fields before searching so queries can hit generated
	// names and composite stage numbers.
	enriched := make([]Record, len(stages))
	for i, stage := range stages {
		e := stage.clone()
		e["GeneratedName"] = GenerateStageName(stage)
		e["SearchableStageNumber"] = SearchableStageNumber(stage)
		if terrain, present := stage.Str("Terrain"); present {
			if cn, known := terrainCN[terrain]; known {
				e["TerrainCN"] = cn
			} else {
				e["TerrainCN"] = terrain
			}
		}
		enriched[i] = e
	}

	if q.Search != "" {
		enriched = Search(enriched, q.Search, []string{
			"Name", "GeneratedName", "Chapter", "StageNumber", "SearchableStageNumber", "Terrain", "TerrainCN",
		})
	}

	enriched = limitRecords(enriched, q.Limit)

	out := make([]Record, len(enriched))
	for i, stage := range enriched {
		out[i] = simplifyStage(stage, q.Detailed)
	}
	return out, nil
}

func stageMatchesArea(stage Record, area string) bool {
	category, present := stage.Str("Category")
	if !present {
		return false
	}
	category = strings.ToLower(category)
	term := strings.ToLower(area)

	if strings.Contains(category, term) {
		return true
	}
	for _, syn := range areaSynonyms[term] {
		if strings.Contains(category, syn) {
			return true
		}
	}
	return false
}

func stageMatchesChapter(stage Record, chapter string) bool {
	term := strings.ToLower(chapter)
	chapterNum, numErr := strconv.Atoi(strings.TrimSpace(chapter))

	// Numeric stage field equality.
	if numErr == nil {
		if stageNum, present := stage.Int("Stage"); present && stageNum == chapterNum {
			return true
		}
		// Chapter derived from the identifier.
		if id, present := stage.Int("Id"); present {
			if derived, ok := ChapterFromID(id); ok && derived == chapterNum {
				return true
			}
		}
	}

	// Explicit chapter field: mutual containment.
	if explicit, present := stage.Str("Chapter"); present {
		explicit = strings.ToLower(explicit)
		if strings.Contains(explicit, term) || strings.Contains(term, explicit) {
			return true
		}
	}

	// Display-name chapter phrases.
	if name, present := stage.Str("Name"); present {
		name = strings.ToLower(name)
		patterns := []string{
			"第" + chapter + "章",
			"chapter " + term,
			"ch" + term,
			term + "-",
			"-" + term + "-",
			"第" + chapter + "话",
			"episode " + term,
		}
		for _, p := range patterns {
			if strings.Contains(name, p) {
				return true
			}
		}
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

func stageMatchesDifficulty(stage Record, difficulty string) bool {
	term := strings.ToLower(difficulty)

	if level, present := stage.Int("Level"); present {
		if n, err := strconv.Atoi(term); err == nil {
			return level == n
		}
		if band, known := difficultyLevels[term]; known && level >= band[0] && level <= band[1] {
			return true
		}
	}

	if category, present := stage.Str("Category"); present {
		category = strings.ToLower(category)
		for _, syn := range difficultyCategories[term] {
			if strings.Contains(category, syn) {
				return true
			}
		}
		if strings.Contains(category, term) {
			return true
		}
	}

	if typ, present := stage.Str("Type"); present && strings.Contains(strings.ToLower(typ), term) {
		return true
	}
	if name, present := stage.Str("Name"); present && strings.Contains(strings.ToLower(name), term) {
		return true
	}
	return false
}

// simplifyStage projects a stage record for output. Chapter and stage
// number fall back to identifier-derived values when the record omits them;
// the display name prefers the upstream name, then the generated one, then
// the "Stage {id}" fallback.
func simplifyStage(stage Record, detailed bool) Record {
	generated, _ := stage.Str("GeneratedName")
	if generated == "" {
		generated = GenerateStageName(stage)
	}

	chapter, hasChapter := stage.Str("Chapter")
	stageNumber, hasStageNumber := stage.Str("StageNumber")
	if id, present := stage.Int("Id"); present && (!hasChapter || !hasStageNumber) {
		derivedChapter, derivedNumber := DeriveStageFields(id)
		if !hasChapter && derivedChapter != "" {
			chapter = derivedChapter
		}
		if !hasStageNumber && derivedNumber != "" {
			stageNumber = derivedNumber
		}
	}

	name, _ := stage.Str("Name")
	if name == "" {
		name = generated
	}

	out := Record{
		"Name":          name,
		"GeneratedName": generated,
	}
	copyFields(out, stage, "Id", "Category", "Type", "Stage", "Level", "Terrain",
		"EntryCost", "APCost", "RecommendLevel", "DropList")
	if chapter != "" {
		out["Chapter"] = chapter
	}
	if stageNumber != "" {
		out["StageNumber"] = stageNumber
		out["SearchableStageNumber"] = stageNumber
	}
	if detailed {
		copyFields(out, stage, "Rewards", "StarCondition", "Formations", "ArmorTypes", "ServerData")
	}
	return out
}

// filterRecords returns the records for which keep is true, preserving
// order.
func filterRecords(records []Record, keep func(Record) bool) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// limitRecords truncates records to limit entries; limit <= 0 means the
// default page size of 20.
func limitRecords(records []Record, limit int) []Record {
	if limit <= 0 {
		limit = 20
	}
	if len(records) > limit {
		return records[:limit]
	}
	return records
}

// copyFields copies the named fields from src to dst when present.
func copyFields(dst, src Record, fields ...string) {
	for _, f := range fields {
		if v, present := src[f]; present {
			dst[f] = v
		}
	}
}
