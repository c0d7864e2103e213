package schaledb_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

const studentFixture = `[
	{
		"Id": 10000, "Name": "白子", "DevName": "Shiroko", "PathName": "shiroko",
		"FamilyName": "砂狼", "PersonalName": "白子",
		"School": "Abydos", "StarGrade": 3, "TacticRole": "DamageDealer",
		"WeaponType": "AR", "ArmorType": "LightArmor", "Club": "Countermeasure",
		"SquadType": "Main", "Position": "Middle", "BulletType": "Explosion",
		"AttackPower1": 351, "AttackPower100": 3510,
		"MaxHP1": 2236, "MaxHP100": 22360,
		"DefensePower1": 29, "DefensePower100": 290,
		"HealPower1": 1408, "HealPower100": 14080,
		"StreetBattleAdaptation": 2, "OutdoorBattleAdaptation": 3, "IndoorBattleAdaptation": 1
	},
	{
		"Id": 10010, "Name": "阿露", "DevName": "Aru", "PathName": "aru",
		"FamilyName": "陆八魔", "PersonalName": "阿露",
		"School": "Gehenna", "StarGrade": 3, "TacticRole": "DamageDealer",
		"WeaponType": "SR", "ArmorType": "LightArmor"
	},
	{
		"Id": 20030, "Name": "芹香", "DevName": "Serika", "PathName": "serika",
		"School": "Abydos", "StarGrade": 2, "TacticRole": "Healer",
		"WeaponType": "SMG", "ArmorType": "HeavyArmor"
	}
]`

func studentRoutes() map[string]string {
	return map[string]string{
		"/cn/students.json": studentFixture,
		"/jp/students.json": `[]`,
		"/en/students.json": `[{"Id": 10000, "Name": "Shiroko", "School": "Abydos", "StarGrade": 3, "TacticRole": "DamageDealer", "WeaponType": "AR", "ArmorType": "LightArmor"}]`,
		"/kr/students.json": `[]`,
		"/th/students.json": `[]`,
	}
}

func TestStudents_SchoolFilterAcceptsAliases(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, studentRoutes())
	ctx := context.Background()

	for _, school := range []string{"Abydos", "abydos", "阿拜多斯", "阿拜多斯高等学校"} {
		students, err := client.Students(ctx, schaledb.StudentQuery{Language: "cn", School: school})
		if err != nil {
			t.Fatalf("Students(school=%q): %v", school, err)
		}
		if len(students) != 2 {
			t.Errorf("Students(school=%q) = %d records, want 2", school, len(students))
		}
	}
}

func TestStudents_RoleAndStarGradeFilters(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, studentRoutes())
	ctx := context.Background()

	students, err := client.Students(ctx, schaledb.StudentQuery{Language: "cn", Role: "治疗"})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Fatalf("Students(role=治疗) = %d records, want 1", len(students))
	}
	if name, _ := students[0].Str("Name"); name != "芹香" {
		t.Errorf("healer = %q, want 芹香", name)
	}

	students, err = client.Students(ctx, schaledb.StudentQuery{Language: "cn", StarGrade: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Errorf("Students(star_grade=2) = %d records, want 1", len(students))
	}
}

func TestStudents_BriefProjectionOmitsStats(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, studentRoutes())

	students, err := client.Students(context.Background(), schaledb.StudentQuery{Language: "cn", Search: "白子"})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Fatalf("got %d records, want 1", len(students))
	}

	s := students[0]
	for _, key := range []string{"Id", "Name", "School", "StarGrade", "TacticRole", "WeaponType", "ArmorType"} {
		if _, present := s[key]; !present {
			t.Errorf("brief projection missing %s", key)
		}
	}
	for _, key := range []string{"AttackPower1", "Club", "BattleAdaptation"} {
		if _, present := s[key]; present {
			t.Errorf("brief projection leaked %s", key)
		}
	}
}

func TestStudents_DetailedProjectionFoldsAdaptation(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, studentRoutes())

	students, err := client.Students(context.Background(), schaledb.StudentQuery{
		Language: "cn", Search: "白子", Detailed: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 1 {
		t.Fatalf("got %d records, want 1", len(students))
	}

	s := students[0]
	if _, present := s["AttackPower100"]; !present {
		t.Error("detailed projection missing AttackPower100")
	}
	adaptation, ok := s["BattleAdaptation"].(schaledb.Record)
	if !ok {
		t.Fatalf("BattleAdaptation = %T, want Record", s["BattleAdaptation"])
	}
	if v, _ := adaptation.Int("Outdoor"); v != 3 {
		t.Errorf("BattleAdaptation.Outdoor = %d, want 3", v)
	}
}

func TestStudentByName_MatchesAcrossNameFields(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, studentRoutes())
	ctx := context.Background()

	// Display name, dev name, path name, and the family+personal
	// combinations must all resolve the same student.
	for _, name := range []string{"白子", "Shiroko", "shiroko", "砂狼白子", "砂狼 白子"} {
		student, err := client.StudentByName(ctx, name, "cn", false)
		if err != nil {
			t.Fatalf("StudentByName(%q): %v", name, err)
		}
		if student == nil {
			t.Fatalf("StudentByName(%q) = nil, want a match", name)
		}
		if id, _ := student.Int("Id"); id != 10000 {
			t.Errorf("StudentByName(%q).Id = %d, want 10000", name, id)
		}
	}
}

func TestStudentByName_CrossLanguageFallback(t *testing.T) {
	t.Parallel()

	routes := studentRoutes()
	// Primary language jp has no roster; the lookup must fall back until it
	// finds the student in cn.
	client, _ := newTestClient(t, routes, schaledb.WithDefaultLanguage("jp"))

	student, err := client.StudentByName(context.Background(), "Aru", "", false)
	if err != nil {
		t.Fatal(err)
	}
	if student == nil {
		t.Fatal("StudentByName(Aru) = nil, want cross-language match")
	}
	if id, _ := student.Int("Id"); id != 10010 {
		t.Errorf("Id = %d, want 10010", id)
	}
}

func TestStudentByName_NotFoundIsNilNotError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, studentRoutes())

	student, err := client.StudentByName(context.Background(), "Nonexistent", "cn", false)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if student != nil {
		t.Errorf("student = %v, want nil for an unknown name", student)
	}
}

func TestGrowthCurve(t *testing.T) {
	t.Parallel()

	student := schaledb.Record{
		"AttackPower1":   float64(100),
		"AttackPower100": float64(1090),
		"MaxHP1":         float64(2000),
		"MaxHP100":       float64(20000),
		// DefensePower endpoints missing: stat must be omitted.
		"DefensePower1": float64(29),
	}

	curve := schaledb.GrowthCurve(student)
	if _, present := curve["DefensePower"]; present {
		t.Error("DefensePower present despite missing level-100 endpoint")
	}

	attack, ok := curve["AttackPower"].([]schaledb.Record)
	if !ok {
		t.Fatalf("AttackPower curve = %T, want []Record", curve["AttackPower"])
	}
	// Levels 1, 11, ..., 91 plus the exact level-100 endpoint.
	if len(attack) != 11 {
		t.Fatalf("curve has %d points, want 11", len(attack))
	}
	first, last := attack[0], attack[len(attack)-1]
	if v, _ := first.Float("Value"); v != 100 {
		t.Errorf("level-1 value = %v, want 100", v)
	}
	if lvl, _ := last.Float("Level"); lvl != 100 {
		t.Errorf("last level = %v, want 100", lvl)
	}
	if v, _ := last.Float("Value"); v != 1090 {
		t.Errorf("level-100 value = %v, want exactly 1090", v)
	}
	// Midpoint sanity: level 51 is halfway through the 99-level span.
	mid := attack[5]
	if lvl, _ := mid.Float("Level"); lvl != 51 {
		t.Fatalf("attack[5].Level = %v, want 51", lvl)
	}
	if v, _ := mid.Float("Value"); v != 600 {
		t.Errorf("level-51 value = %v, want 600", v)
	}
}

func TestAvatarURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind      string
		wantURL   string
		wantLabel string
	}{
		{"portrait", "https://schaledb.com/images/student/portrait/10000.webp", "full portrait"},
		{"collection", "https://schaledb.com/images/student/collection/10000.webp", "collection art"},
		{"ICON", "https://schaledb.com/images/student/icon/10000.webp", "icon"},
		{"lobby", "https://schaledb.com/images/student/lobby/10000.webp", "lobby art"},
		{"bogus", "https://schaledb.com/images/student/portrait/10000.webp", "full portrait"},
		{"", "https://schaledb.com/images/student/portrait/10000.webp", "full portrait"},
	}

	for _, tt := range tests {
		url, label := schaledb.AvatarURL(10000, tt.kind)
		if url != tt.wantURL || label != tt.wantLabel {
			t.Errorf("AvatarURL(10000, %q) = (%q, %q), want (%q, %q)",
				tt.kind, url, label, tt.wantURL, tt.wantLabel)
		}
	}
}

func TestStudents_LimitDefaultsToTwenty(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	sb.WriteString("[")
	for i := range 30 {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"Id": %d, "Name": "Student %d"}`, 10000+i, i)
	}
	sb.WriteString("]")

	client, _ := newTestClient(t, map[string]string{
		"/cn/students.json": sb.String(),
	})

	students, err := client.Students(context.Background(), schaledb.StudentQuery{Language: "cn"})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 20 {
		t.Errorf("got %d records, want the default page of 20", len(students))
	}

	students, err = client.Students(context.Background(), schaledb.StudentQuery{Language: "cn", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(students) != 5 {
		t.Errorf("got %d records, want 5", len(students))
	}
}
