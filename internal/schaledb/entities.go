package schaledb

import (
	"context"
	"strings"
)

// ItemQuery filters the items collection.
type ItemQuery struct {
	Language string
	Search   string
	Category string
	Rarity   *int
	Tag      string
	Limit    int
	Detailed bool
}

// Items returns item records matching the query.
func (c *Client) Items(ctx context.Context, q ItemQuery) ([]Record, error) {
	items, err := c.FetchCollection(ctx, q.Language, "items")
	if err != nil {
		return nil, err
	}

	if q.Category != "" {
		items = filterRecords(items, func(r Record) bool {
			return fieldContains(r, "Category", q.Category)
		})
	}
	if q.Rarity != nil {
		items = filterRecords(items, func(r Record) bool {
			rarity, present := r.Int("Rarity")
			return present && rarity == *q.Rarity
		})
	}
	if q.Tag != "" {
		items = filterRecords(items, func(r Record) bool {
			return recordHasTag(r, q.Tag)
		})
	}

	if q.Search != "" {
		items = Search(items, q.Search, []string{"Name", "Category", "Tags", "Description"})
	}

	items = limitRecords(items, q.Limit)

	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = simplifyItem(item, q.Detailed)
	}
	return out, nil
}

func simplifyItem(item Record, detailed bool) Record {
	out := Record{}
	copyFields(out, item, "Id", "Name", "Category", "Rarity", "Icon")
	if detailed {
		copyFields(out, item, "Description", "Tags", "Quality", "Tier", "ExpValue", "ShopCategory")
	}
	return out
}

// FurnitureQuery filters the furniture collection.
type FurnitureQuery struct {
	Language string
	Search   string
	Category string
	Type     string
	Rarity   *int
	Tag      string
	Limit    int
	Detailed bool
}

// Furniture returns furniture records matching the query.
func (c *Client) Furniture(ctx context.Context, q FurnitureQuery) ([]Record, error) {
	furniture, err := c.FetchCollection(ctx, q.Language, "furniture")
	if err != nil {
		return nil, err
	}

	if q.Category != "" {
		furniture = filterRecords(furniture, func(r Record) bool {
			return fieldContains(r, "Category", q.Category)
		})
	}
	if q.Type != "" {
		furniture = filterRecords(furniture, func(r Record) bool {
			return fieldContains(r, "Type", q.Type) || fieldContains(r, "SubCategory", q.Type)
		})
	}
	if q.Rarity != nil {
		furniture = filterRecords(furniture, func(r Record) bool {
			rarity, present := r.Int("Rarity")
			return present && rarity == *q.Rarity
		})
	}
	if q.Tag != "" {
		furniture = filterRecords(furniture, func(r Record) bool {
			return recordHasTag(r, q.Tag)
		})
	}

	if q.Search != "" {
		furniture = Search(furniture, q.Search, []string{"Name", "Category", "Type", "Tags", "Description"})
	}

	furniture = limitRecords(furniture, q.Limit)

	out := make([]Record, len(furniture))
	for i, f := range furniture {
		out[i] = simplifyFurniture(f, q.Detailed)
	}
	return out, nil
}

func simplifyFurniture(f Record, detailed bool) Record {
	out := Record{}
	copyFields(out, f, "Id", "Name", "Category", "Rarity", "Icon")
	if detailed {
		copyFields(out, f, "Description", "Tags", "SubCategory", "SetGroupId", "ComfortBonus", "Size")
	}
	return out
}

// EnemyQuery filters the enemies collection.
type EnemyQuery struct {
	Language   string
	Search     string
	Type       string
	Rank       string
	ArmorType  string
	BulletType string
	Terrain    string
	Limit      int
	Detailed   bool
}

// Enemies returns enemy records matching the query.
func (c *Client) Enemies(ctx context.Context, q EnemyQuery) ([]Record, error) {
	enemies, err := c.FetchCollection(ctx, q.Language, "enemies")
	if err != nil {
		return nil, err
	}

	if q.Type != "" {
		enemies = filterRecords(enemies, func(r Record) bool {
			return fieldContains(r, "SquadType", q.Type) || fieldContains(r, "Type", q.Type)
		})
	}
	if q.Rank != "" {
		enemies = filterRecords(enemies, func(r Record) bool {
			return fieldContains(r, "Rank", q.Rank)
		})
	}
	if q.ArmorType != "" {
		enemies = filterRecords(enemies, func(r Record) bool {
			return fieldContains(r, "ArmorType", q.ArmorType)
		})
	}
	if q.BulletType != "" {
		enemies = filterRecords(enemies, func(r Record) bool {
			return fieldContains(r, "BulletType", q.BulletType)
		})
	}
	if q.Terrain != "" {
		enemies = filterRecords(enemies, func(r Record) bool {
			return fieldContains(r, "Terrain", q.Terrain)
		})
	}

	if q.Search != "" {
		enemies = Search(enemies, q.Search, []string{"Name", "Type", "Rank", "ArmorType", "BulletType", "WeaponType"})
	}

	enemies = limitRecords(enemies, q.Limit)

	out := make([]Record, len(enemies))
	for i, e := range enemies {
		out[i] = simplifyEnemy(e, q.Detailed)
	}
	return out, nil
}

func simplifyEnemy(e Record, detailed bool) Record {
	out := Record{}
	copyFields(out, e, "Id", "Name", "Rank", "ArmorType", "BulletType", "WeaponType")
	if detailed {
		copyFields(out, e, "SquadType", "Size", "AttackPower1", "AttackPower100",
			"MaxHP1", "MaxHP100", "DefensePower1", "DefensePower100", "Terrain")
	}
	return out
}

// RaidQuery filters the raids collection.
type RaidQuery struct {
	Language string
	Search   string
	Terrain  string
	Limit    int
	Detailed bool
}

// Raids returns raid boss records. The upstream payload wraps the raid list
// in an envelope alongside seasonal schedules; the fetch layer unwraps it.
func (c *Client) Raids(ctx context.Context, q RaidQuery) ([]Record, error) {
	raids, err := c.FetchCollection(ctx, q.Language, "raids")
	if err != nil {
		return nil, err
	}

	if q.Terrain != "" {
		raids = filterRecords(raids, func(r Record) bool {
			return fieldContains(r, "Terrain", q.Terrain)
		})
	}
	if q.Search != "" {
		raids = Search(raids, q.Search, []string{"Name", "Terrain", "ArmorType", "BulletType"})
	}

	raids = limitRecords(raids, q.Limit)

	out := make([]Record, len(raids))
	for i, r := range raids {
		out[i] = simplifyRaid(r, q.Detailed)
	}
	return out, nil
}

func simplifyRaid(r Record, detailed bool) Record {
	out := Record{}
	copyFields(out, r, "Id", "Name", "Terrain", "BulletType", "ArmorType")
	if detailed {
		copyFields(out, r, "Faction", "MaxDifficulty", "BattleDuration", "EnemyList", "Level", "BaseIntelligence")
	}
	return out
}

// EquipmentQuery filters the equipment collection.
type EquipmentQuery struct {
	Language string
	Search   string
	Category string
	Tier     *int
	Limit    int
	Detailed bool
}

// Equipment returns gear records matching the query.
func (c *Client) Equipment(ctx context.Context, q EquipmentQuery) ([]Record, error) {
	equipment, err := c.FetchCollection(ctx, q.Language, "equipment")
	if err != nil {
		return nil, err
	}

	if q.Category != "" {
		equipment = filterRecords(equipment, func(r Record) bool {
			return fieldContains(r, "Category", q.Category)
		})
	}
	if q.Tier != nil {
		equipment = filterRecords(equipment, func(r Record) bool {
			tier, present := r.Int("Tier")
			return present && tier == *q.Tier
		})
	}
	if q.Search != "" {
		equipment = Search(equipment, q.Search, []string{"Name", "Category", "Description"})
	}

	equipment = limitRecords(equipment, q.Limit)

	out := make([]Record, len(equipment))
	for i, e := range equipment {
		out[i] = simplifyEquipment(e, q.Detailed)
	}
	return out, nil
}

func simplifyEquipment(e Record, detailed bool) Record {
	out := Record{}
	copyFields(out, e, "Id", "Name", "Category", "Tier", "Icon")
	if detailed {
		copyFields(out, e, "Description", "StatType", "StatValue", "Recipe", "RecipeCost")
	}
	return out
}

// fieldContains reports a case-folded substring match on a scalar field.
func fieldContains(r Record, field, term string) bool {
	value, present := r.FieldString(field)
	if !present {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(term))
}

// recordHasTag reports whether any entry of the record's Tags array matches
// the tag, case-folded.
func recordHasTag(r Record, tag string) bool {
	tags, present := r.Strings("Tags")
	if !present {
		return false
	}
	tag = strings.ToLower(tag)
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), tag) {
			return true
		}
	}
	return false
}
