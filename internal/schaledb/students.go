package schaledb

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/schale-tools/schale-mcp/internal/observe"
)

// schoolAliases maps common alternate school names (Chinese full and short
// forms, lowercase abbreviations) to the canonical upstream identifier, so
// filters accept whichever form a user writes.
var schoolAliases = map[string]string{
	"三一":       "Trinity",
	"三一综合学园":   "Trinity",
	"千年":       "Millennium",
	"千年科技学院":   "Millennium",
	"格黑娜":      "Gehenna",
	"格黑娜学园":    "Gehenna",
	"阿拜多斯":     "Abydos",
	"阿拜多斯高等学校": "Abydos",
	"山海经":      "Shanhaijing",
	"山海经高级中学":  "Shanhaijing",
	"百鬼夜行":     "Hyakkiyako",
	"百鬼夜行联合学院": "Hyakkiyako",
	"红冬":       "RedWinter",
	"红冬联邦学园":   "RedWinter",
	"特殊任务部":    "SRT",
	"srt":      "SRT",
	"阿里乌斯":     "Arius",
	"阿里乌斯小队":   "Arius",
	"常盘台":      "Tokiwadai",
	"瓦尔基里":     "Valkyrie",
	"高地人":      "Highlander",
	"狂猎":       "WildHunt",
	"其他":       "ETC",
	"佐久川":      "Sakugawa",
}

// roleAliases maps alternate tactic-role names to the canonical upstream
// identifier.
var roleAliases = map[string]string{
	"治疗":  "Healer",
	"治疗师": "Healer",
	"奶妈":  "Healer",
	"坦克":  "Tanker",
	"肉盾":  "Tanker",
	"前排":  "Tanker",
	"输出":  "DamageDealer",
	"伤害":  "DamageDealer",
	"dps": "DamageDealer",
	"辅助":  "Supporter",
	"支援":  "Supporter",
	"载具":  "Vehicle",
	"机甲":  "Vehicle",
}

// studentSearchFields are the fields the relevance search inspects for
// student queries.
var studentSearchFields = []string{"Name", "School", "TacticRole", "WeaponType"}

// studentNameFields are the fields checked, in order, when resolving a
// student by name.
var studentNameFields = []string{"Name", "DevName", "FamilyName", "PersonalName", "PathName"}

// StudentQuery selects and filters students. All filters are optional and
// AND-composed; Search runs after filtering.
type StudentQuery struct {
	Language   string
	Search     string
	School     string // accepts canonical names and aliases
	StarGrade  int    // 0 means no filter
	Role       string // accepts canonical names and aliases
	Limit      int
	Detailed   bool
	Compressed bool // fetch the students.min endpoint instead
}

// Students returns student records matching the query, projected to the
// brief or detailed field set.
func (c *Client) Students(ctx context.Context, q StudentQuery) ([]Record, error) {
	endpoint := "students"
	if q.Compressed {
		endpoint = "students.min"
	}
	students, err := c.FetchCollection(ctx, q.Language, endpoint)
	if err != nil {
		return nil, err
	}

	if q.School != "" {
		students = filterRecords(students, func(s Record) bool {
			return fieldMatchesAlias(s, "School", q.School, schoolAliases)
		})
	}
	if q.StarGrade != 0 {
		students = filterRecords(students, func(s Record) bool {
			grade, present := s.Int("StarGrade")
			return present && grade == q.StarGrade
		})
	}
	if q.Role != "" {
		students = filterRecords(students, func(s Record) bool {
			return fieldMatchesAlias(s, "TacticRole", q.Role, roleAliases)
		})
	}

	if q.Search != "" {
		students = Search(students, q.Search, studentSearchFields)
	}

	students = limitRecords(students, q.Limit)

	out := make([]Record, len(students))
	for i, s := range students {
		out[i] = simplifyStudent(s, q.Detailed)
	}
	return out, nil
}

// fieldMatchesAlias reports whether the record's field contains term, either
// directly or through the alias table's canonical form.
func fieldMatchesAlias(r Record, field, term string, aliases map[string]string) bool {
	value, present := r.Str(field)
	if !present {
		return false
	}
	value = strings.ToLower(value)
	normalized := strings.ToLower(term)

	if strings.Contains(value, normalized) {
		return true
	}

	canonical := aliases[term]
	if canonical == "" {
		canonical = aliases[normalized]
	}
	return canonical != "" && strings.Contains(value, strings.ToLower(canonical))
}

// StudentByName resolves a single student by any of their name fields —
// display name, dev name, family or personal name, path name, or the
// family+personal combinations — first in the requested language and then
// across the remaining languages. A nil record with a nil error means no
// student matched.
func (c *Client) StudentByName(ctx context.Context, name, language string, detailed bool) (Record, error) {
	language = c.lang(language)
	normalized := strings.ToLower(strings.TrimSpace(name))

	found, err := c.findStudentIn(ctx, language, normalized)
	if err != nil {
		return nil, err
	}
	if found != nil {
		return simplifyStudent(found, detailed), nil
	}

	for _, lang := range Languages {
		if lang == language {
			continue
		}
		observe.Logger(ctx).Debug("name lookup falling back", "name", name, "language", lang)
		found, err = c.findStudentIn(ctx, lang, normalized)
		if err != nil {
			return nil, err
		}
		if found != nil {
			return simplifyStudent(found, detailed), nil
		}
	}
	return nil, nil
}

// findStudentIn scans one language's student collection for a name match.
func (c *Client) findStudentIn(ctx context.Context, language, normalized string) (Record, error) {
	students, err := c.FetchCollection(ctx, language, "students")
	if err != nil {
		return nil, err
	}

	for _, student := range students {
		candidates := make([]string, 0, len(studentNameFields)+2)
		for _, field := range studentNameFields {
			if v, present := student.Str(field); present {
				candidates = append(candidates, v)
			}
		}
		family, hasFamily := student.Str("FamilyName")
		personal, hasPersonal := student.Str("PersonalName")
		if hasFamily && hasPersonal {
			candidates = append(candidates, family+personal, family+" "+personal)
		}

		for _, candidate := range candidates {
			v := strings.ToLower(strings.TrimSpace(candidate))
			if v == normalized || strings.Contains(v, normalized) {
				return student, nil
			}
		}
	}
	return nil, nil
}

// simplifyStudent projects a student record for output. The brief set is the
// minimum needed to identify and compare students; the detailed set adds
// combat stats and battle adaptations, with the three adaptation fields
// folded into a nested BattleAdaptation object.
func simplifyStudent(student Record, detailed bool) Record {
	out := Record{}
	copyFields(out, student, "Id", "Name", "School", "StarGrade", "TacticRole", "WeaponType", "ArmorType")

	if !detailed {
		return out
	}

	copyFields(out, student, "Club", "SquadType", "Position", "BulletType",
		"AttackPower1", "AttackPower100", "MaxHP1", "MaxHP100",
		"DefensePower1", "DefensePower100", "HealPower1", "HealPower100")

	adaptation := Record{}
	copyFields(adaptation, student, "StreetBattleAdaptation", "OutdoorBattleAdaptation", "IndoorBattleAdaptation")
	if len(adaptation) > 0 {
		out["BattleAdaptation"] = Record{
			"Street":  student["StreetBattleAdaptation"],
			"Outdoor": student["OutdoorBattleAdaptation"],
			"Indoor":  student["IndoorBattleAdaptation"],
		}
	}
	return out
}

// GrowthCurve interpolates a student's level-1 to level-100 stats into a
// per-stat curve sampled every ten levels. Stats whose endpoints are missing
// are omitted.
func GrowthCurve(student Record) Record {
	curve := Record{}
	for _, stat := range []string{"AttackPower", "MaxHP", "DefensePower", "HealPower"} {
		low, hasLow := student.Float(stat + "1")
		high, hasHigh := student.Float(stat + "100")
		if hasLow && hasHigh {
			curve[stat] = statCurve(low, high)
		}
	}
	return curve
}

// statCurve linearly interpolates between the level-1 and level-100 values
// at levels 1, 11, ..., 91, and 100. The endpoints are exact.
func statCurve(level1, level100 float64) []Record {
	total := level100 - level1
	var points []Record
	for level := 1; level <= 100; level += 10 {
		progress := float64(level-1) / 99
		points = append(points, Record{
			"Level": float64(level),
			"Value": math.Round(level1 + total*progress),
		})
	}
	points = append(points, Record{"Level": float64(100), "Value": level100})
	return points
}

// Avatar image kinds.
const (
	AvatarPortrait   = "portrait"
	AvatarCollection = "collection"
	AvatarIcon       = "icon"
	AvatarLobby      = "lobby"
)

// studentImageBaseURL is the public root for student artwork. Image assets
// live outside the data tree, so this is independent of the client's data
// base URL.
const studentImageBaseURL = "https://schaledb.com/images/student"

// avatarLabels maps avatar kinds to their human-readable descriptions.
var avatarLabels = map[string]string{
	AvatarPortrait:   "full portrait",
	AvatarCollection: "collection art",
	AvatarIcon:       "icon",
	AvatarLobby:      "lobby art",
}

// AvatarURL builds the image URL for a student id and avatar kind, plus the
// kind's display label. Unknown kinds fall back to the portrait. Dressed and
// seasonal variants carry their own ids, so callers resolving a variant by
// name should go through the variant resolver first.
func AvatarURL(studentID int, kind string) (url, label string) {
	kind = strings.ToLower(kind)
	if _, known := avatarLabels[kind]; !known {
		kind = AvatarPortrait
	}
	return fmt.Sprintf("%s/%s/%d.webp", studentImageBaseURL, kind, studentID), avatarLabels[kind]
}
