package server

import (
	"context"
	"fmt"

	"github.com/schale-tools/schale-mcp/internal/schaledb"
)

// Shared argument fields. Every tool takes an optional language code; list
// tools additionally page with a limit.

type studentListArgs struct {
	Language   string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	Search     string `json:"search,omitempty" jsonschema:"Fuzzy search over name, school, role, and weapon type"`
	School     string `json:"school,omitempty" jsonschema:"Filter by school; accepts English names and Chinese aliases (e.g. Trinity, 三一)"`
	StarGrade  int    `json:"star_grade,omitempty" jsonschema:"Filter by initial star grade (1-3)"`
	Role       string `json:"role,omitempty" jsonschema:"Filter by tactic role; accepts aliases (e.g. Healer, 治疗, dps)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20)"`
	Detailed   bool   `json:"detailed,omitempty" jsonschema:"Include combat stats and battle adaptations"`
	Compressed bool   `json:"compressed,omitempty" jsonschema:"Fetch the compressed student dataset"`
}

type studentNameArgs struct {
	Name     string `json:"name" jsonschema:"Student name in any supported language; other languages are tried automatically"`
	Language string `json:"language,omitempty" jsonschema:"Language code to search first (default cn)"`
	Detailed bool   `json:"detailed,omitempty" jsonschema:"Include combat stats and battle adaptations"`
}

type studentInfoArgs struct {
	Name     string `json:"name" jsonschema:"Student name in any supported language"`
	Language string `json:"language,omitempty" jsonschema:"Language code to search first (default cn)"`
}

type raidArgs struct {
	Language string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	Search   string `json:"search,omitempty" jsonschema:"Fuzzy search over name, terrain, armor type, and bullet type"`
	Terrain  string `json:"terrain,omitempty" jsonschema:"Filter by terrain: Street, Outdoor, Indoor"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20)"`
	Detailed bool   `json:"detailed,omitempty" jsonschema:"Include difficulty, duration, and enemy details"`
}

type equipmentArgs struct {
	Language string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	Search   string `json:"search,omitempty" jsonschema:"Fuzzy search over name, category, and description"`
	Category string `json:"category,omitempty" jsonschema:"Filter by equipment category (e.g. Hat, Gloves, Badge)"`
	Tier     *int   `json:"tier,omitempty" jsonschema:"Filter by equipment tier"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20)"`
	Detailed bool   `json:"detailed,omitempty" jsonschema:"Include stat bonuses and recipe"`
}

type emptyArgs struct{}

type stageArgs struct {
	Language   string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	Search     string `json:"search,omitempty" jsonschema:"Fuzzy search over stage names and derived identifiers (e.g. 1-4, H3-2)"`
	Area       string `json:"area,omitempty" jsonschema:"Filter by stage area: campaign/main story, bounty, commission, school dungeon, weekly dungeon"`
	Chapter    string `json:"chapter,omitempty" jsonschema:"Filter by chapter number or phrase (e.g. 3, 第3章, chapter 3)"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"Filter by difficulty: a numeric level, easy/normal/hard/extreme, or a category term"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20)"`
	Detailed   bool   `json:"detailed,omitempty" jsonschema:"Include rewards, star conditions, and formations"`
}

type itemArgs struct {
	Language string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	Search   string `json:"search,omitempty" jsonschema:"Fuzzy search over name, category, tags, and description"`
	Category string `json:"category,omitempty" jsonschema:"Filter by item category (e.g. Material, Coin, CharacterExpGrowth)"`
	Rarity   *int   `json:"rarity,omitempty" jsonschema:"Filter by rarity"`
	Tag      string `json:"tag,omitempty" jsonschema:"Filter by tag"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20)"`
	Detailed bool   `json:"detailed,omitempty" jsonschema:"Include description, tags, and shop data"`
}

type furnitureArgs struct {
	Language string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	Search   string `json:"search,omitempty" jsonschema:"Fuzzy search over name, category, type, tags, and description"`
	Category string `json:"category,omitempty" jsonschema:"Filter by furniture category"`
	Type     string `json:"type,omitempty" jsonschema:"Filter by furniture type or subcategory"`
	Rarity   *int   `json:"rarity,omitempty" jsonschema:"Filter by rarity"`
	Tag      string `json:"tag,omitempty" jsonschema:"Filter by tag"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20)"`
	Detailed bool   `json:"detailed,omitempty" jsonschema:"Include description, set group, and comfort bonus"`
}

type enemyArgs struct {
	Language   string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	Search     string `json:"search,omitempty" jsonschema:"Fuzzy search over name, type, rank, armor, bullet, and weapon type"`
	Type       string `json:"type,omitempty" jsonschema:"Filter by enemy or squad type"`
	Rank       string `json:"rank,omitempty" jsonschema:"Filter by rank (e.g. Minion, Elite, Champion, Boss)"`
	ArmorType  string `json:"armor_type,omitempty" jsonschema:"Filter by armor type"`
	BulletType string `json:"bullet_type,omitempty" jsonschema:"Filter by bullet type"`
	Terrain    string `json:"terrain,omitempty" jsonschema:"Filter by terrain adaptation"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 20)"`
	Detailed   bool   `json:"detailed,omitempty" jsonschema:"Include combat stats"`
}

type avatarArgs struct {
	Name       string `json:"name" jsonschema:"Student name in any supported language, variants included (e.g. Aru (New Year))"`
	Language   string `json:"language,omitempty" jsonschema:"Language code to search first (default cn)"`
	AvatarType string `json:"avatar_type,omitempty" jsonschema:"Image kind: portrait, collection, icon, lobby (default portrait)"`
}

type variantArgs struct {
	Name            string `json:"name" jsonschema:"Student name, base or variant form (e.g. Aru or Aru (New Year))"`
	Language        string `json:"language,omitempty" jsonschema:"Language code: cn, jp, en, kr, th (default cn)"`
	IncludeOriginal *bool  `json:"include_original,omitempty" jsonschema:"Include the base character in results (default true)"`
}

type multiAvatarArgs struct {
	Names      []string `json:"names" jsonschema:"Student names to resolve, variants included"`
	Language   string   `json:"language,omitempty" jsonschema:"Language code to search first (default cn)"`
	AvatarType string   `json:"avatar_type,omitempty" jsonschema:"Image kind: portrait, collection, icon, lobby (default portrait)"`
}

func (s *Server) registerTools() {
	tool(s, "get_students",
		"Query Blue Archive students with filters for school, star grade, and tactic role, plus fuzzy name search.",
		func(ctx context.Context, in studentListArgs) (any, error) {
			students, err := s.client.Students(ctx, schaledb.StudentQuery{
				Language:   in.Language,
				Search:     in.Search,
				School:     in.School,
				StarGrade:  in.StarGrade,
				Role:       in.Role,
				Limit:      in.Limit,
				Detailed:   in.Detailed,
				Compressed: in.Compressed,
			})
			if err != nil {
				return nil, err
			}
			return listResult("students", students), nil
		})

	tool(s, "get_student_by_name",
		"Look up a single student by name. Matches display, developer, family, personal, and path names, and falls back across all languages.",
		func(ctx context.Context, in studentNameArgs) (any, error) {
			student, err := s.client.StudentByName(ctx, in.Name, in.Language, in.Detailed)
			if err != nil {
				return nil, err
			}
			if student == nil {
				return nil, fmt.Errorf("no student found matching %q", in.Name)
			}
			return student, nil
		})

	tool(s, "get_student_info",
		"Full profile for one student: detailed stats, battle adaptations, and an interpolated level 1-100 growth curve.",
		func(ctx context.Context, in studentInfoArgs) (any, error) {
			student, err := s.client.StudentByName(ctx, in.Name, in.Language, true)
			if err != nil {
				return nil, err
			}
			if student == nil {
				return nil, fmt.Errorf("no student found matching %q", in.Name)
			}
			student["GrowthCurve"] = schaledb.GrowthCurve(student)
			return student, nil
		})

	tool(s, "get_raids",
		"Query raid bosses, optionally filtered by terrain.",
		func(ctx context.Context, in raidArgs) (any, error) {
			raids, err := s.client.Raids(ctx, schaledb.RaidQuery{
				Language: in.Language,
				Search:   in.Search,
				Terrain:  in.Terrain,
				Limit:    in.Limit,
				Detailed: in.Detailed,
			})
			if err != nil {
				return nil, err
			}
			return listResult("raids", raids), nil
		})

	tool(s, "get_equipment",
		"Query equipment, optionally filtered by category and tier.",
		func(ctx context.Context, in equipmentArgs) (any, error) {
			equipment, err := s.client.Equipment(ctx, schaledb.EquipmentQuery{
				Language: in.Language,
				Search:   in.Search,
				Category: in.Category,
				Tier:     in.Tier,
				Limit:    in.Limit,
				Detailed: in.Detailed,
			})
			if err != nil {
				return nil, err
			}
			return listResult("equipment", equipment), nil
		})

	tool(s, "get_game_config",
		"Current game configuration: build identifier, region, and related metadata.",
		func(ctx context.Context, in emptyArgs) (any, error) {
			return s.client.GameConfig(ctx)
		})

	tool(s, "get_stages",
		"Query stages across campaign, bounty, commission, and dungeon areas, with chapter and difficulty filters and derived stage identifiers like 1-4.",
		func(ctx context.Context, in stageArgs) (any, error) {
			stages, err := s.client.Stages(ctx, schaledb.StageQuery{
				Language:   in.Language,
				Search:     in.Search,
				Area:       in.Area,
				Chapter:    in.Chapter,
				Difficulty: in.Difficulty,
				Limit:      in.Limit,
				Detailed:   in.Detailed,
			})
			if err != nil {
				return nil, err
			}
			return listResult("stages", stages), nil
		})

	tool(s, "get_items",
		"Query items, optionally filtered by category, rarity, and tag.",
		func(ctx context.Context, in itemArgs) (any, error) {
			items, err := s.client.Items(ctx, schaledb.ItemQuery{
				Language: in.Language,
				Search:   in.Search,
				Category: in.Category,
				Rarity:   in.Rarity,
				Tag:      in.Tag,
				Limit:    in.Limit,
				Detailed: in.Detailed,
			})
			if err != nil {
				return nil, err
			}
			return listResult("items", items), nil
		})

	tool(s, "get_furniture",
		"Query cafe furniture, optionally filtered by category, type, rarity, and tag.",
		func(ctx context.Context, in furnitureArgs) (any, error) {
			furniture, err := s.client.Furniture(ctx, schaledb.FurnitureQuery{
				Language: in.Language,
				Search:   in.Search,
				Category: in.Category,
				Type:     in.Type,
				Rarity:   in.Rarity,
				Tag:      in.Tag,
				Limit:    in.Limit,
				Detailed: in.Detailed,
			})
			if err != nil {
				return nil, err
			}
			return listResult("furniture", furniture), nil
		})

	tool(s, "get_enemies",
		"Query enemies, optionally filtered by type, rank, armor, bullet type, and terrain.",
		func(ctx context.Context, in enemyArgs) (any, error) {
			enemies, err := s.client.Enemies(ctx, schaledb.EnemyQuery{
				Language:   in.Language,
				Search:     in.Search,
				Type:       in.Type,
				Rank:       in.Rank,
				ArmorType:  in.ArmorType,
				BulletType: in.BulletType,
				Terrain:    in.Terrain,
				Limit:      in.Limit,
				Detailed:   in.Detailed,
			})
			if err != nil {
				return nil, err
			}
			return listResult("enemies", enemies), nil
		})

	tool(s, "get_student_avatar",
		"Image URL for one student's avatar. Accepts variant names like Aru (New Year).",
		func(ctx context.Context, in avatarArgs) (any, error) {
			return s.studentAvatar(ctx, in.Name, in.Language, in.AvatarType)
		})

	tool(s, "find_student_variants",
		"Resolve all variants of a character family: the base student plus dressed and seasonal versions, ranked by how closely each matches the query.",
		func(ctx context.Context, in variantArgs) (any, error) {
			includeBase := in.IncludeOriginal == nil || *in.IncludeOriginal
			variants, err := s.client.FindStudentVariants(ctx, in.Name, in.Language, includeBase)
			if err != nil {
				return nil, err
			}
			base, suffix, _ := schaledb.ParseVariantName(in.Name)
			out := make([]schaledb.Record, len(variants))
			for i, v := range variants {
				out[i] = v.Record()
			}
			result := listResult("variants", out)
			result["query"] = in.Name
			result["base_name"] = base
			if suffix != "" {
				result["variant_suffix"] = suffix
			}
			return result, nil
		})

	tool(s, "get_multiple_student_avatars",
		"Image URLs for several students at once. Names that cannot be resolved are reported per-entry instead of failing the call.",
		func(ctx context.Context, in multiAvatarArgs) (any, error) {
			if len(in.Names) == 0 {
				return nil, fmt.Errorf("names must not be empty")
			}
			avatars := make([]schaledb.Record, 0, len(in.Names))
			for _, name := range in.Names {
				avatar, err := s.studentAvatar(ctx, name, in.Language, in.AvatarType)
				if err != nil {
					avatars = append(avatars, schaledb.Record{
						"Name":  name,
						"Error": err.Error(),
					})
					continue
				}
				avatars = append(avatars, avatar)
			}
			return listResult("avatars", avatars), nil
		})
}

// studentAvatar resolves name to a student and builds the avatar record
// shared by the single and batch avatar tools.
func (s *Server) studentAvatar(ctx context.Context, name, language, avatarType string) (schaledb.Record, error) {
	student, err := s.client.StudentByName(ctx, name, language, false)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("no student found matching %q", name)
	}
	id, present := student.Int("Id")
	if !present {
		return nil, fmt.Errorf("student %q has no id", name)
	}

	url, label := schaledb.AvatarURL(id, avatarType)
	avatar := schaledb.Record{
		"Id":         id,
		"AvatarType": label,
		"Url":        url,
	}
	if studentName, ok := student.Str("Name"); ok {
		avatar["Name"] = studentName
	}
	return avatar, nil
}

// listResult wraps a record list in the uniform {count, <key>} envelope list
// tools return.
func listResult(key string, records []schaledb.Record) map[string]any {
	return map[string]any{
		"count": len(records),
		key:     records,
	}
}
